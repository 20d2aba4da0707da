// Package checks contains argument checks for the anonymization engine and the
// error types the engine reports.
package checks

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
)

const (
	epsilonName = "Epsilon"
	deltaName   = "Delta"
	kName       = "K"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	switch len(nameSlice) {
	case 0:
		return defaultName, nil
	case 1:
		return nameSlice[0], nil
	default:
		return "", fmt.Errorf("there should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
}

// CheckK returns a *ValidationError if k is outside of [minK, maxK].
func CheckK(k, minK, maxK int) error {
	if k < minK || k > maxK {
		return validationErrorf(kName, "is %d, must be between %d and %d", k, minK, maxK)
	}
	return nil
}

// CheckSufficientData returns a *DataInsufficiencyError if fewer than k records
// are available.
func CheckSufficientData(n, k int) error {
	if n < k {
		return &DataInsufficiencyError{Need: k, Got: n}
	}
	return nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive, NaN or ±∞.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return validationErrorf(epsName, "is %f, must be strictly positive and finite", epsilon)
	}
	return nil
}

// CheckEpsilonRange returns an error if ε is outside of [minEps, maxEps].
func CheckEpsilonRange(epsilon, minEps, maxEps float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if err := CheckEpsilonStrict(epsilon, epsName); err != nil {
		return err
	}
	if epsilon < minEps || epsilon > maxEps {
		return validationErrorf(epsName, "is %g, must be between %g and %g", epsilon, minEps, maxEps)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or equal to 1.
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return validationErrorf(delName, "is %e, cannot be NaN", delta)
	}
	if delta <= 0 {
		return validationErrorf(delName, "is %e, must be strictly positive", delta)
	}
	if delta >= 1 {
		return validationErrorf(delName, "is %e, must be strictly less than 1", delta)
	}
	return nil
}

// CheckSensitivity returns an error if sensitivity is nonpositive, NaN or ±∞.
func CheckSensitivity(sensitivity float64) error {
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return validationErrorf("Sensitivity", "is %f, must be strictly positive and finite", sensitivity)
	}
	return nil
}

// CheckBoundsFloat64 returns an error if lower is larger than upper, or if either parameter is NaN or ±∞.
func CheckBoundsFloat64(lower, upper float64) error {
	if math.IsNaN(lower) {
		return validationErrorf("Lower bound", "cannot be NaN")
	}
	if math.IsNaN(upper) {
		return validationErrorf("Upper bound", "cannot be NaN")
	}
	if math.IsInf(lower, 0) {
		return validationErrorf("Lower bound", "cannot be infinity")
	}
	if math.IsInf(upper, 0) {
		return validationErrorf("Upper bound", "cannot be infinity")
	}
	if lower > upper {
		return validationErrorf("Upper bound", "(%f) must be larger than lower bound (%f)", upper, lower)
	}
	if lower == upper {
		log.Warningf("Lower bound is equal to upper bound: all noised values will be clipped to %f", upper)
	}
	return nil
}

// CheckGeneralizationLevel returns an error if level is below 1.
func CheckGeneralizationLevel(field string, level int) error {
	if level < 1 {
		return validationErrorf("Generalization level", "for %q is %d, must be at least 1", field, level)
	}
	return nil
}

// CheckMaxIterations returns an error if maxIterations is less than 1.
func CheckMaxIterations(maxIterations int) error {
	if maxIterations < 1 {
		return validationErrorf("MaxIterations", "is %d, must be at least 1", maxIterations)
	}
	return nil
}

// CheckPercentile returns an error if p is outside of [0, 100].
func CheckPercentile(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return validationErrorf("Percentile", "is %f, must be within [0, 100]", p)
	}
	return nil
}

// CheckNumQueries returns an error if n is negative.
func CheckNumQueries(n int) error {
	if n < 0 {
		return validationErrorf("NumQueries", "is %d, cannot be negative", n)
	}
	return nil
}
