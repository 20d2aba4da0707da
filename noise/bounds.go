package noise

import (
	"math"

	"github.com/delique1984/Experience5-privacy/checks"
)

// Bounds is the declared (min, max) value range of a numeric field.
type Bounds struct {
	Lower float64 `json:"min" yaml:"min"`
	Upper float64 `json:"max" yaml:"max"`
}

// Range returns Upper - Lower, the default global sensitivity of a field.
func (b Bounds) Range() float64 {
	return b.Upper - b.Lower
}

// Check returns an error if b is not a valid finite range.
func (b Bounds) Check() error {
	return checks.CheckBoundsFloat64(b.Lower, b.Upper)
}

// Clip clamps x within b, such that b.Lower is returned if x < b.Lower, and
// b.Upper is returned if x > b.Upper. Otherwise, x is returned.
func Clip(x float64, b Bounds) float64 {
	if x > b.Upper {
		return b.Upper
	}
	if x < b.Lower {
		return b.Lower
	}
	return x
}

// RoundCount rounds a noised count to the nearest non-negative integer.
func RoundCount(x float64) int64 {
	r := math.Round(x)
	if r < 0 || math.IsNaN(r) {
		return 0
	}
	return int64(r)
}
