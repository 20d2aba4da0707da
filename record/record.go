// Package record defines the in-memory records the anonymization engine works on
// and the small set of helpers used to read values out of them.
//
// A Record maps a field name to a scalar: nil, a number (any Go numeric kind) or
// a string. Records handed to the engine are treated as read-only; every
// transformation works on a Clone.
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is a single row supplied by a record source.
type Record map[string]any

// Clone returns a shallow copy of r. Values are scalars, so a shallow copy is
// enough to keep the caller's record untouched.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Has reports whether field is present in r, even if its value is nil.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// CloneAll clones every record in rs.
func CloneAll(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// IsNumber reports whether v holds a Go numeric value. Numeric strings are not
// numbers for this purpose.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	}
	return false
}

// Float converts v to a finite float64. Numeric strings are parsed; nil,
// booleans, unparseable strings and non-finite numbers return false.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String renders v the way it appears in equivalence class keys. nil renders
// as the empty string.
func String(v any) string {
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
	case json.Number:
		return x.String()
	}
	if f, ok := Float(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// Values returns the finite numeric values of field across rs, skipping
// records where the field is missing, nil or unparseable.
func Values(rs []Record, field string) []float64 {
	var out []float64
	for _, r := range rs {
		if f, ok := Float(r[field]); ok {
			out = append(out, f)
		}
	}
	return out
}
