// Package record defines the untyped records served by the mock data
// provider and the value coercions the renderers rely on.
package record

import (
	"math"
	"strconv"
	"strings"
)

// Record is one row of mock data keyed by field name.
type Record map[string]any

// IDKey is the field holding a record's identity.
const IDKey = "id"

// Clone returns a shallow copy of r.
func Clone(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Get returns r[key], tolerating a nil record.
func (r Record) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// String returns the stringified value of r[key].
func (r Record) String(key string) string {
	return Stringify(r.Get(key))
}

// ID returns the numeric identity of r.
func ID(r Record) (float64, bool) {
	return Number(r.Get(IDKey))
}

// CoerceID converts a requested identifier to a number. Surrounding
// whitespace is ignored, an empty string is zero and anything non-numeric
// is NaN, which never equals a record id.
func CoerceID(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Number converts v to float64 when it is numeric or a numeric string.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f := CoerceID(n)
		if math.IsNaN(f) || strings.TrimSpace(n) == "" {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Stringify renders v the way a dynamic language would print it: integral
// floats without a fraction, booleans as true/false and nil as "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	}
	if n, ok := Number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// Compare orders two extracted values: nil first, numbers numerically,
// booleans false before true, strings lexically. Mixed kinds compare by
// their stringified form.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	_, aStr := a.(string)
	_, bStr := b.(string)
	if !aStr && !bStr {
		an, aok := Number(a)
		bn, bok := Number(b)
		if aok && bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}
