// Package stattestutils provides the statistics used by the tests of the
// noise-drawing packages.
//
// It is not optimized for performance and is only intended to be used in
// tests.
package stattestutils

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Z99999 is the 99.9995% quantile of the standard normal distribution. Checks
// tolerating Z99999 standard errors falsely reject with a probability of about
// 10⁻⁵.
const Z99999 = 4.41717

// SampleMean returns the mean of values, or 0 for an empty slice.
func SampleMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleVariance returns the population variance of values: the mean squared
// distance to their mean. It is 0 for fewer than two values.
func SampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, v := stat.PopMeanVariance(values, nil)
	return v
}

// MeanTolerance returns the deviation of a sample mean of n draws from a
// distribution of the given variance that is exceeded with a probability of
// about 10⁻⁵.
func MeanTolerance(variance float64, n int) float64 {
	return Z99999 * math.Sqrt(variance/float64(n))
}

// LaplaceVariance returns the variance 2b² of a Laplace distribution of scale
// b.
func LaplaceVariance(b float64) float64 {
	return 2 * b * b
}

// NearEqual reports whether a and b differ by at most tolerance.
func NearEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
