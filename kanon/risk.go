package kanon

import (
	"math"

	"github.com/delique1984/Experience5-privacy/record"
)

// Privacy tiers of a k-anonymous release.
const (
	PrivacyHigh         = "high"
	PrivacyMedium       = "medium"
	PrivacyLow          = "low"
	PrivacyInsufficient = "insufficient"
)

// Assessment is the privacy/utility summary of an anonymization run.
type Assessment struct {
	PrivacyLevel string  `json:"privacy_level"`
	IsKAnonymous bool    `json:"is_k_anonymous"`
	DataUtility  float64 `json:"data_utility"`
	KValue       int     `json:"k_value"`
}

// Assess grades a run: k ≥ 10 is high, k ≥ 5 medium and anything lower low. A
// run that did not reach k-anonymity is insufficient whatever k was.
func Assess(s Stats) Assessment {
	a := Assessment{
		IsKAnonymous: s.IsKAnonymous,
		DataUtility:  1 - s.InformationLoss,
		KValue:       s.KValue,
	}
	switch {
	case !s.IsKAnonymous:
		a.PrivacyLevel = PrivacyInsufficient
	case s.KValue >= 10:
		a.PrivacyLevel = PrivacyHigh
	case s.KValue >= 5:
		a.PrivacyLevel = PrivacyMedium
	default:
		a.PrivacyLevel = PrivacyLow
	}
	return a
}

// Risk levels reported by EvaluateRisk.
const (
	RiskLow    = "低风险"
	RiskMedium = "中风险"
	RiskHigh   = "高风险"
)

// RiskyClass is an equivalence class whose members all share one sensitive
// value, so membership alone discloses it.
type RiskyClass struct {
	Key       []string `json:"class_key"`
	Size      int      `json:"size"`
	Diversity int      `json:"sensitive_diversity"`
}

// RiskReport describes the diversity of a sensitive attribute within
// equivalence classes.
type RiskReport struct {
	TotalClasses               int          `json:"total_classes"`
	ClassesWithUniqueSensitive int          `json:"classes_with_unique_sensitive"`
	MinSensitiveDiversity      int          `json:"min_sensitive_diversity"`
	AvgSensitiveDiversity      float64      `json:"avg_sensitive_diversity"`
	HighRiskClasses            []RiskyClass `json:"high_risk_classes"`
	RiskLevel                  string       `json:"risk_level"`
}

// EvaluateRisk counts the distinct non-nil values of sensitiveAttr in each
// class. The risk is low when no class has a single value, medium when fewer
// than 30% of the classes do, and high otherwise.
func EvaluateRisk(cs *Classes, sensitiveAttr string) RiskReport {
	rep := RiskReport{TotalClasses: cs.Len()}
	if cs.Len() == 0 {
		rep.RiskLevel = RiskLow
		return rep
	}
	minDiversity, total := math.MaxInt, 0
	for _, c := range cs.All() {
		distinct := make(map[string]bool)
		for _, r := range c.Records {
			if v, ok := r[sensitiveAttr]; ok && v != nil {
				distinct[record.String(v)] = true
			}
		}
		d := len(distinct)
		total += d
		if d < minDiversity {
			minDiversity = d
		}
		if d == 1 {
			rep.ClassesWithUniqueSensitive++
			rep.HighRiskClasses = append(rep.HighRiskClasses, RiskyClass{Key: c.Key, Size: c.Size(), Diversity: d})
		}
	}
	rep.MinSensitiveDiversity = minDiversity
	rep.AvgSensitiveDiversity = float64(total) / float64(cs.Len())
	switch {
	case rep.ClassesWithUniqueSensitive == 0:
		rep.RiskLevel = RiskLow
	case float64(rep.ClassesWithUniqueSensitive) < 0.3*float64(cs.Len()):
		rep.RiskLevel = RiskMedium
	default:
		rep.RiskLevel = RiskHigh
	}
	return rep
}
