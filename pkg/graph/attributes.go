package graph

import (
	"strconv"
)

// Well-known attribute keys the pipeline branches on. Everything else in an
// attribute map passes through the pipeline untouched.
const (
	KeyDataSource  = "data_source"
	KeyGeometryWKT = "geometry_wkt"
	KeyLengthM     = "length_m"
	KeySubgraph    = "subgraph"
	KeyCountryCode = "countrycode"
	KeyIsBorder    = "is_border"
	KeyX           = "x"
	KeyY           = "y"
)

// Attributes is the open-ended key→value set carried by nodes and edges.
// Heterogeneous enrichment sources contribute arbitrary keys; typed
// accessors exist only for the fields algorithms branch on.
type Attributes map[string]any

// String returns the attribute as a string.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
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
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Float returns the attribute as a float64, converting integer values.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key]
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
	default:
		return 0, false
	}
}

// Int returns the attribute as an int, truncating float values.
func (a Attributes) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Bool returns the attribute as a bool.
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Has reports whether the attribute is present and non-nil.
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge copies every key from other into a, overwriting existing keys.
func (a Attributes) Merge(other Attributes) {
	for k, v := range other {
		a[k] = v
	}
}

// MergeNonNil copies only non-nil values from other into a. An attribute
// already present is never replaced by a null.
func (a Attributes) MergeNonNil(other Attributes) {
	for k, v := range other {
		if v == nil {
			continue
		}
		a[k] = v
	}
}
