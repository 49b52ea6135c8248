package bind

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

var ErrInvalidTarget = errors.New("bind target should be a pointer to a struct or to a slice of structs")

// columnIndex maps column names to struct field indexes. A field is named by
// its `bind` tag, or by its snake_case name when untagged.
func columnIndex(t reflect.Type) map[string][]int {
	index := map[string][]int{}
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		if !ft.IsExported() {
			continue
		}
		name, exists := ft.Tag.Lookup("bind")
		if name == "-" {
			continue
		}
		if !exists {
			name = strcase.ToSnake(ft.Name)
		}
		index[name] = ft.Index
	}
	return index
}

func makeScanIntoList(v reflect.Value, index map[string][]int, columns []string) []any {
	scanInto := make([]any, 0, len(columns))
	for _, col := range columns {
		// users.id and id bind to the same field
		if dot := strings.LastIndexByte(col, '.'); dot >= 0 {
			col = col[dot+1:]
		}
		if fi, ok := index[col]; ok {
			scanInto = append(scanInto, v.FieldByIndex(fi).Addr().Interface())
			continue
		}
		scanInto = append(scanInto, new(any))
	}
	return scanInto
}

// Bind binds given rows to the given object at v. A single struct receives
// the first row, a slice receives one element per row. Columns without a
// matching field are discarded.
func Bind(rows *sql.Rows, v any) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInvalidTarget
	}
	target := rv.Elem()

	switch target.Kind() {
	case reflect.Struct:
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return sql.ErrNoRows
		}
		if err := rows.Scan(makeScanIntoList(target, columnIndex(target.Type()), columns)...); err != nil {
			return err
		}
	case reflect.Slice:
		et := target.Type().Elem()
		isPtr := et.Kind() == reflect.Ptr
		if isPtr {
			et = et.Elem()
		}
		if et.Kind() != reflect.Struct {
			return fmt.Errorf("%w, got slice of %s", ErrInvalidTarget, et)
		}
		index := columnIndex(et)
		for rows.Next() {
			item := reflect.New(et)
			if err := rows.Scan(makeScanIntoList(item.Elem(), index, columns)...); err != nil {
				return err
			}
			if isPtr {
				target.Set(reflect.Append(target, item))
			} else {
				target.Set(reflect.Append(target, item.Elem()))
			}
		}
	default:
		return ErrInvalidTarget
	}

	return rows.Err()
}
