// Package budget tracks how much privacy budget a series of differentially
// private queries consumes under linear composition.
//
// The accounting is advisory: nothing here refuses a query.
package budget

import (
	"fmt"
	"math"
	"sync"

	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/checks"
)

// DefaultCeiling is the total ε a dataset is assumed to tolerate.
const DefaultCeiling = 10.0

// Privacy levels of a cumulative ε.
const (
	StrongPrivacy   = "强隐私保护"
	ModeratePrivacy = "中等隐私保护"
	WeakPrivacy     = "弱隐私保护"
)

// Recommendations for a cumulative ε.
const (
	AdviceAmple     = "隐私预算充足，可以继续查询"
	AdviceModerate  = "隐私预算适中，建议谨慎进行后续查询"
	AdviceLow       = "隐私预算较低，建议减少查询频率或提高epsilon值"
	AdviceExhausted = "隐私预算耗尽，不建议继续查询，考虑重新评估隐私需求"
)

// Report describes the budget consumed by a number of queries.
type Report struct {
	EpsilonPerQuery      float64 `json:"epsilon_per_query"`
	NumQueries           int     `json:"num_queries"`
	TotalEpsilonConsumed float64 `json:"total_epsilon_consumed"`
	PrivacyLevel         string  `json:"privacy_level"`
	RemainingBudget      float64 `json:"remaining_budget"`
	RemainingQueries     int     `json:"remaining_queries"`
	Recommendation       string  `json:"recommendation"`
}

// Evaluate reports the budget consumed by numQueries queries of
// epsilonPerQuery each against ceiling. A ceiling of 0 means DefaultCeiling.
func Evaluate(epsilonPerQuery float64, numQueries int, ceiling float64) (Report, error) {
	if err := checks.CheckEpsilonStrict(epsilonPerQuery); err != nil {
		return Report{}, fmt.Errorf("Evaluate: %w", err)
	}
	if err := checks.CheckNumQueries(numQueries); err != nil {
		return Report{}, fmt.Errorf("Evaluate: %w", err)
	}
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	if ceiling < 0 || math.IsInf(ceiling, 0) || math.IsNaN(ceiling) {
		return Report{}, checks.NewInputError("Evaluate", "budget ceiling must be finite and positive, got %f", ceiling)
	}
	return report(epsilonPerQuery, numQueries, epsilonPerQuery*float64(numQueries), ceiling), nil
}

func report(perQuery float64, n int, total, ceiling float64) Report {
	r := Report{
		EpsilonPerQuery:      perQuery,
		NumQueries:           n,
		TotalEpsilonConsumed: round4(total),
		PrivacyLevel:         Level(total),
		RemainingBudget:      math.Max(0, round4(ceiling-total)),
		Recommendation:       Recommend(total),
	}
	if perQuery > 0 {
		r.RemainingQueries = max(0, int((ceiling-total)/perQuery))
	}
	return r
}

// Level grades a cumulative ε: below 1 is strong, below 5 moderate.
func Level(total float64) string {
	switch {
	case total < 1:
		return StrongPrivacy
	case total < 5:
		return ModeratePrivacy
	}
	return WeakPrivacy
}

// Recommend returns advice for a cumulative ε.
func Recommend(total float64) string {
	switch {
	case total < 1:
		return AdviceAmple
	case total < 5:
		return AdviceModerate
	case total < 10:
		return AdviceLow
	}
	return AdviceExhausted
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Accountant keeps a running total of the ε spent by queries. It is safe for
// concurrent use.
type Accountant struct {
	ceiling float64

	mu      sync.Mutex
	spent   float64
	queries int
}

// NewAccountant returns an Accountant with the given ceiling. A ceiling of 0
// means DefaultCeiling.
func NewAccountant(ceiling float64) (*Accountant, error) {
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	if ceiling < 0 || math.IsInf(ceiling, 0) || math.IsNaN(ceiling) {
		return nil, checks.NewInputError("NewAccountant", "budget ceiling must be finite and positive, got %f", ceiling)
	}
	return &Accountant{ceiling: ceiling}, nil
}

// Spend records a query that consumed epsilon. Overspending the ceiling is
// logged, not refused.
func (a *Accountant) Spend(epsilon float64) error {
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return fmt.Errorf("Spend: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spent += epsilon
	a.queries++
	if a.spent > a.ceiling {
		log.Warningf("budget: spent ε=%.4f over %d queries, above the ceiling %.4f", a.spent, a.queries, a.ceiling)
	}
	return nil
}

// Spent returns the total ε recorded so far.
func (a *Accountant) Spent() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spent
}

// Report describes the budget consumed so far. EpsilonPerQuery is the mean ε
// of the recorded queries.
func (a *Accountant) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	var perQuery float64
	if a.queries > 0 {
		perQuery = a.spent / float64(a.queries)
	}
	return report(perQuery, a.queries, a.spent, a.ceiling)
}
