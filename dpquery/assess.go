package dpquery

import (
	"gonum.org/v1/gonum/stat"
)

// Privacy tiers of a privatized release.
const (
	PrivacyHigh   = "high"
	PrivacyMedium = "medium"
	PrivacyLow    = "low"
)

// Assessment grades a privatized release.
type Assessment struct {
	PrivacyLevel  string  `json:"privacy_level"`
	PrivacyBudget float64 `json:"privacy_budget"`
	// DataUtility is 1 / (1 + mean relative error over the fields), or 0
	// without any field metrics.
	DataUtility float64 `json:"data_utility"`
}

// Assess grades r: ε ≤ 0.5 is high privacy, ε ≤ 2 medium and anything larger
// low.
func Assess(r *PrivatizeResult) Assessment {
	a := Assessment{PrivacyBudget: r.Epsilon}
	switch {
	case r.Epsilon <= 0.5:
		a.PrivacyLevel = PrivacyHigh
	case r.Epsilon <= 2:
		a.PrivacyLevel = PrivacyMedium
	default:
		a.PrivacyLevel = PrivacyLow
	}
	if len(r.Metrics) == 0 {
		return a
	}
	rel := make([]float64, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		rel = append(rel, m.RelativeError)
	}
	a.DataUtility = 1 / (1 + stat.Mean(rel, nil))
	return a
}
