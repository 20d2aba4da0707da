package noise

import (
	"gonum.org/v1/gonum/floats"

	log "github.com/golang/glog"
)

// SensitivitySource records where a resolved sensitivity came from.
type SensitivitySource int

// Sensitivity sources, in resolution order.
const (
	FromOverride SensitivitySource = iota
	FromTable
	FromObservedRange
	FromDefault
)

func (s SensitivitySource) String() string {
	switch s {
	case FromOverride:
		return "override"
	case FromTable:
		return "table"
	case FromObservedRange:
		return "observed_range"
	case FromDefault:
		return "default"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s SensitivitySource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DefaultSensitivity is used when a field has no configured sensitivity and
// its observed values span a zero-width range.
const DefaultSensitivity = 1.0

// ResolveSensitivity picks the sensitivity of field: an explicit per-call
// override first, then the configured per-field table, and only then the
// max - min of the values actually observed.
func ResolveSensitivity(field string, overrides, table map[string]float64, observed []float64) (float64, SensitivitySource) {
	if s, ok := overrides[field]; ok && s > 0 {
		return s, FromOverride
	}
	if s, ok := table[field]; ok && s > 0 {
		return s, FromTable
	}
	if len(observed) > 0 {
		if r := floats.Max(observed) - floats.Min(observed); r > 0 {
			return r, FromObservedRange
		}
	}
	log.Warningf("ResolveSensitivity: no sensitivity source for field %q, using %v", field, DefaultSensitivity)
	return DefaultSensitivity, FromDefault
}
