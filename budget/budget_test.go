package budget

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluate(t *testing.T) {
	for _, tc := range []struct {
		desc       string
		epsilon    float64
		numQueries int
		want       Report
	}{
		{
			desc: "no queries", epsilon: 1, numQueries: 0,
			want: Report{EpsilonPerQuery: 1, PrivacyLevel: StrongPrivacy, RemainingBudget: 10, RemainingQueries: 10, Recommendation: AdviceAmple},
		},
		{
			desc: "moderate", epsilon: 0.5, numQueries: 4,
			want: Report{EpsilonPerQuery: 0.5, NumQueries: 4, TotalEpsilonConsumed: 2, PrivacyLevel: ModeratePrivacy, RemainingBudget: 8, RemainingQueries: 16, Recommendation: AdviceModerate},
		},
		{
			desc: "weak", epsilon: 2, numQueries: 3,
			want: Report{EpsilonPerQuery: 2, NumQueries: 3, TotalEpsilonConsumed: 6, PrivacyLevel: WeakPrivacy, RemainingBudget: 4, RemainingQueries: 2, Recommendation: AdviceLow},
		},
		{
			desc: "exhausted", epsilon: 1, numQueries: 10,
			want: Report{EpsilonPerQuery: 1, NumQueries: 10, TotalEpsilonConsumed: 10, PrivacyLevel: WeakPrivacy, Recommendation: AdviceExhausted},
		},
		{
			desc: "overspent", epsilon: 4, numQueries: 4,
			want: Report{EpsilonPerQuery: 4, NumQueries: 4, TotalEpsilonConsumed: 16, PrivacyLevel: WeakPrivacy, Recommendation: AdviceExhausted},
		},
	} {
		got, err := Evaluate(tc.epsilon, tc.numQueries, 0)
		if err != nil {
			t.Fatalf("Evaluate: when %s got error %v", tc.desc, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Evaluate: when %s diff (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestEvaluateInvalid(t *testing.T) {
	for _, tc := range []struct {
		desc       string
		epsilon    float64
		numQueries int
		ceiling    float64
	}{
		{"zero epsilon", 0, 1, 10},
		{"negative queries", 1, -1, 10},
		{"negative ceiling", 1, 1, -2},
	} {
		if _, err := Evaluate(tc.epsilon, tc.numQueries, tc.ceiling); err == nil {
			t.Errorf("Evaluate: when %s got nil error, want error", tc.desc)
		}
	}
}

func TestLevelBoundaries(t *testing.T) {
	for _, tc := range []struct {
		total      float64
		wantLevel  string
		wantAdvice string
	}{
		{0.99, StrongPrivacy, AdviceAmple},
		{1, ModeratePrivacy, AdviceModerate},
		{4.99, ModeratePrivacy, AdviceModerate},
		{5, WeakPrivacy, AdviceLow},
		{9.99, WeakPrivacy, AdviceLow},
		{10, WeakPrivacy, AdviceExhausted},
	} {
		if got := Level(tc.total); got != tc.wantLevel {
			t.Errorf("Level(%v): got %s, want %s", tc.total, got, tc.wantLevel)
		}
		if got := Recommend(tc.total); got != tc.wantAdvice {
			t.Errorf("Recommend(%v): got %s, want %s", tc.total, got, tc.wantAdvice)
		}
	}
}

func TestAccountant(t *testing.T) {
	a, err := NewAccountant(4)
	if err != nil {
		t.Fatalf("NewAccountant: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.Spend(0.25); err != nil {
				t.Errorf("Spend: %v", err)
			}
		}()
	}
	wg.Wait()
	want := Report{EpsilonPerQuery: 0.25, NumQueries: 8, TotalEpsilonConsumed: 2, PrivacyLevel: ModeratePrivacy, RemainingBudget: 2, RemainingQueries: 8, Recommendation: AdviceModerate}
	if diff := cmp.Diff(want, a.Report()); diff != "" {
		t.Errorf("Report: diff (-want +got):\n%s", diff)
	}

	// Spending past the ceiling is recorded, not refused.
	for i := 0; i < 3; i++ {
		if err := a.Spend(1); err != nil {
			t.Fatalf("Spend over the ceiling: %v", err)
		}
	}
	if got := a.Spent(); got != 5 {
		t.Errorf("Spent: got %v, want 5", got)
	}
	if r := a.Report(); r.RemainingBudget != 0 || r.RemainingQueries != 0 {
		t.Errorf("Report over the ceiling: got %+v, want nothing remaining", r)
	}
	if err := a.Spend(-1); err == nil {
		t.Errorf("Spend(-1): got nil error, want error")
	}
}

func TestNewAccountantDefaultCeiling(t *testing.T) {
	a, err := NewAccountant(0)
	if err != nil {
		t.Fatalf("NewAccountant(0): %v", err)
	}
	if r := a.Report(); r.RemainingBudget != DefaultCeiling || r.RemainingQueries != 0 {
		t.Errorf("Report of a fresh accountant: got %+v", r)
	}
	if _, err := NewAccountant(-1); err == nil {
		t.Errorf("NewAccountant(-1): got nil error, want error")
	}
}
