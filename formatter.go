package querytpl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Format renders a as the SQL literal for the given specifier. Strings are
// escaped by the dialect. ?# quotes strings, passes numbers through unquoted
// and rejects null and bool with ErrInvalidArgumentType, where a lax
// renderer would emit an empty name or 1.
func Format(d *Dialect, spec Specifier, a Arg) (string, error) {
	if d == nil {
		d = Dialects.MySQL
	}
	var (
		out string
		err error
	)
	switch spec {
	case SpecInt:
		out = strconv.FormatInt(toInt(a), 10)
	case SpecFloat:
		out = formatFloat(toFloat(a))
	case SpecArray:
		out, err = formatArray(d, a)
	case SpecIdentifier:
		out, err = formatIdentifier(d, a)
	default:
		out, err = formatDefault(d, a)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func formatDefault(d *Dialect, a Arg) (string, error) {
	switch a.kind {
	case KindNull:
		return "NULL", nil
	case KindString:
		return d.QuoteString(a.s), nil
	case KindBool:
		return formatBool(a.b), nil
	}
	return "", fmt.Errorf("%w: %s given, expected null, bool or string", ErrInvalidArgumentType, a.kind)
}

func formatArray(d *Dialect, a Arg) (string, error) {
	switch a.kind {
	case KindList:
		return joinElements(d, a.items)
	case KindMap:
		if a.isSequential() {
			values := make([]Arg, len(a.pairs))
			for i, p := range a.pairs {
				values[i] = p.Value
			}
			return joinElements(d, values)
		}
		parts := make([]string, 0, len(a.pairs))
		for _, p := range a.pairs {
			v, err := formatElement(d, p.Value)
			if err != nil {
				return "", fmt.Errorf("key %q: %w", p.Key, err)
			}
			parts = append(parts, d.QuoteIdentifier(p.Key)+" = "+v)
		}
		return strings.Join(parts, ", "), nil
	}
	return "", fmt.Errorf("%w, %s given", ErrArrayArgumentRequired, a.kind)
}

func joinElements(d *Dialect, items []Arg) (string, error) {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		v, err := formatElement(d, item)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ", "), nil
}

// formatElement renders one scalar of an ?a list or map.
func formatElement(d *Dialect, a Arg) (string, error) {
	switch a.kind {
	case KindNull:
		return "NULL", nil
	case KindString:
		return d.QuoteString(a.s), nil
	case KindBool:
		return formatBool(a.b), nil
	case KindInt:
		return strconv.FormatInt(a.i, 10), nil
	case KindFloat:
		return formatFloat(a.f), nil
	}
	return "", fmt.Errorf("%w: %s is not a scalar", ErrInvalidArgumentType, a.kind)
}

func formatIdentifier(d *Dialect, a Arg) (string, error) {
	switch a.kind {
	case KindList:
		return joinIdentifiers(d, a.items)
	case KindMap:
		values := make([]Arg, len(a.pairs))
		for i, p := range a.pairs {
			values[i] = p.Value
		}
		return joinIdentifiers(d, values)
	}
	return identifier(d, a)
}

func joinIdentifiers(d *Dialect, items []Arg) (string, error) {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		v, err := identifier(d, item)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ", "), nil
}

func identifier(d *Dialect, a Arg) (string, error) {
	switch a.kind {
	case KindString:
		if a.s == "" {
			return "", fmt.Errorf("%w: empty identifier", ErrInvalidArgumentType)
		}
		return d.QuoteIdentifier(a.s), nil
	case KindInt:
		return strconv.FormatInt(a.i, 10), nil
	case KindFloat:
		return formatFloat(a.f), nil
	}
	return "", fmt.Errorf("%w: %s is not an identifier", ErrInvalidArgumentType, a.kind)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var numericPrefix = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// toInt coerces any argument to an integer. Floats truncate toward zero and
// strings are read up to the first non numeric character.
func toInt(a Arg) int64 {
	switch a.kind {
	case KindInt:
		return a.i
	case KindFloat:
		return truncate(a.f)
	case KindBool:
		if a.b {
			return 1
		}
		return 0
	case KindString:
		prefix := strings.TrimSpace(numericPrefix.FindString(a.s))
		if prefix == "" {
			return 0
		}
		if i, err := strconv.ParseInt(prefix, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return truncate(f)
	case KindList:
		return nonEmpty(len(a.items))
	case KindMap:
		return nonEmpty(len(a.pairs))
	}
	return 0
}

// toFloat follows the same coercion rules as toInt.
func toFloat(a Arg) float64 {
	switch a.kind {
	case KindInt:
		return float64(a.i)
	case KindFloat:
		return a.f
	case KindString:
		prefix := strings.TrimSpace(numericPrefix.FindString(a.s))
		if prefix == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return f
	}
	return float64(toInt(a))
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func nonEmpty(n int) int64 {
	if n > 0 {
		return 1
	}
	return 0
}
