package table

import (
	"fmt"
	"strconv"
)

// IsNull reports whether the cell is absent or nil.
func (r Row) IsNull(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}

// String returns the cell as a string. Numeric cells are formatted.
func (r Row) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		// Source exports carry integer ids as floats; render without exponent.
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Float returns the cell as a float64, converting integer cells.
func (r Row) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the cell as an int64, truncating float cells.
func (r Row) Int(key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
