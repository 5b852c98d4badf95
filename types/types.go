// Package types provides scalar kind tags and value coercion between
// native Go values and the representations sent to (and read from) the
// database driver.
package types

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrTypeMismatch is returned when a value's runtime type is incompatible
// with a column's declared kind.
var ErrTypeMismatch = errors.New("type mismatch")

// Kind tags the declared value type of a column.
type Kind int

const (
	Int Kind = iota
	Int64
	Float64
	Bool
	String
	Time
)

// String returns the kind name used in schema files and error messages.
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a schema-file type name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int", "integer":
		return Int, nil
	case "int64", "long", "bigint":
		return Int64, nil
	case "float", "float64", "double":
		return Float64, nil
	case "bool", "boolean":
		return Bool, nil
	case "string", "text", "varchar":
		return String, nil
	case "time", "datetime", "timestamp":
		return Time, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", name)
	}
}

// BindValue coerces a native value into the bind representation for a
// column of the given kind. Widening conversions (int to int64) are
// accepted; narrowing ones are not.
func BindValue(k Kind, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case Int:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int8:
			return int64(n), nil
		}
	case Int64:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
	case Float64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Time:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %T is not assignable to a %s column", ErrTypeMismatch, v, k)
}

// ScanValue coerces a raw driver value into the native representation for
// a column of the given kind. Drivers hand back a narrow set of types
// (int64, float64, bool, []byte, string, time.Time); everything else is a
// mismatch.
func ScanValue(k Kind, raw interface{}) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	switch k {
	case Int:
		if n, ok := rawInt(raw); ok {
			if n > math.MaxInt32 || n < math.MinInt32 {
				return nil, fmt.Errorf("%w: value %d overflows an int column", ErrTypeMismatch, n)
			}
			return int(n), nil
		}
	case Int64:
		if n, ok := rawInt(raw); ok {
			return n, nil
		}
	case Float64:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case Bool:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	case String:
		switch s := raw.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	case Time:
		switch t := raw.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err == nil {
				return parsed, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: cannot read %T as %s", ErrTypeMismatch, raw, k)
}

func rawInt(raw interface{}) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}
