package querytpl

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/oklog/ulid/v2"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindSkip:
		return "skip"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Arg is a single template argument. The zero value is NULL.
type Arg struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	items []Arg
	pairs []Pair
}

// Pair is one entry of a map argument.
type Pair struct {
	Key   string
	Value Arg
}

func Null() Arg { return Arg{kind: KindNull} }
func Bool(b bool) Arg { return Arg{kind: KindBool, b: b} }
func Int(i int64) Arg { return Arg{kind: KindInt, i: i} }
func Float(f float64) Arg { return Arg{kind: KindFloat, f: f} }
func String(s string) Arg { return Arg{kind: KindString, s: s} }
func List(items ...Arg) Arg { return Arg{kind: KindList, items: items} }

// Map builds a map argument keeping the given order. A later pair with an
// already seen key replaces the earlier value in place.
func Map(pairs ...Pair) Arg {
	out := make([]Pair, 0, len(pairs))
	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if idx, ok := seen[p.Key]; ok {
			out[idx].Value = p.Value
			continue
		}
		seen[p.Key] = len(out)
		out = append(out, p)
	}
	return Arg{kind: KindMap, pairs: out}
}

// Skip returns the sentinel that removes the fragment holding its placeholder.
func Skip() Arg { return Arg{kind: KindSkip} }

// SkipValue is an alias of Skip.
func SkipValue() Arg { return Skip() }

func (a Arg) Kind() Kind { return a.kind }
func (a Arg) IsSkip() bool { return a.kind == KindSkip }
func (a Arg) IsNull() bool { return a.kind == KindNull }
func (a Arg) Items() []Arg { return a.items }
func (a Arg) Pairs() []Pair { return a.pairs }

// isSequential reports whether a map's keys are exactly "0".."n-1" in order.
func (a Arg) isSequential() bool {
	for i, p := range a.pairs {
		if p.Key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// String renders the argument for logs and Explain output.
func (a Arg) String() string {
	switch a.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(a.b)
	case KindInt:
		return strconv.FormatInt(a.i, 10)
	case KindFloat:
		return strconv.FormatFloat(a.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(a.s)
	case KindList:
		s := "["
		for i, item := range a.items {
			if i > 0 {
				s += ", "
			}
			s += item.String()
		}
		return s + "]"
	case KindMap:
		s := "{"
		for i, p := range a.pairs {
			if i > 0 {
				s += ", "
			}
			s += strconv.Quote(p.Key) + ": " + p.Value.String()
		}
		return s + "}"
	case KindSkip:
		return "<skip>"
	}
	return "<invalid>"
}

// ArgOf converts a Go value into an Arg. Pointers are followed, nil ones
// become NULL. driver.Valuer types such as sql.NullString convert through
// their driver value. Maps with non-string keys are sorted by key, struct
// fields become snake_case keys unless a `db` tag names them. Unsigned values
// above math.MaxInt64 are clamped.
func ArgOf(v any) (Arg, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Null(), nil
		}
		return ArgOf(rv.Elem().Interface())
	}

	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Arg:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case uuid.UUID:
		return String(t.String()), nil
	case ulid.ULID:
		return String(t.String()), nil
	case time.Time:
		return String(t.Format("2006-01-02 15:04:05")), nil
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return Arg{}, fmt.Errorf("%w: %T: %v", ErrUnsupportedArgument, v, err)
		}
		return ArgOf(dv)
	case fmt.Stringer:
		if rv.Kind() == reflect.Struct {
			return String(t.String()), nil
		}
	}
	return argOfValue(rv)
}

func argOfValue(rv reflect.Value) (Arg, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null(), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Int(math.MaxInt64), nil
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List(), nil
		}
		items := make([]Arg, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := ArgOf(rv.Index(i).Interface())
			if err != nil {
				return Arg{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case reflect.Map:
		return mapArgOf(rv)
	case reflect.Struct:
		return structArgOf(rv)
	}
	return Arg{}, fmt.Errorf("%w: %s", ErrUnsupportedArgument, rv.Type())
}

func mapArgOf(rv reflect.Value) (Arg, error) {
	keys := rv.MapKeys()
	switch rv.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	default:
		return Arg{}, fmt.Errorf("%w: map key type %s", ErrUnsupportedArgument, rv.Type().Key())
	}
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		val, err := ArgOf(rv.MapIndex(k).Interface())
		if err != nil {
			return Arg{}, err
		}
		pairs = append(pairs, Pair{Key: fmt.Sprint(k.Interface()), Value: val})
	}
	return Map(pairs...), nil
}

func structArgOf(rv reflect.Value) (Arg, error) {
	t := rv.Type()
	pairs := make([]Pair, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		if !ft.IsExported() {
			continue
		}
		name := strcase.ToSnake(ft.Name)
		if tag, ok := ft.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		val, err := ArgOf(rv.Field(i).Interface())
		if err != nil {
			return Arg{}, err
		}
		pairs = append(pairs, Pair{Key: name, Value: val})
	}
	return Map(pairs...), nil
}

func argsOf(values []any) ([]Arg, error) {
	args := make([]Arg, 0, len(values))
	for i, v := range values {
		a, err := ArgOf(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, a)
	}
	return args, nil
}
