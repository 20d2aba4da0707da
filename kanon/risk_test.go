package kanon

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/delique1984/Experience5-privacy/record"
)

func TestEvaluateRisk(t *testing.T) {
	rs := []record.Record{
		{"q": "a", "s": "高"}, {"q": "a", "s": "高"},
		{"q": "b", "s": "高"}, {"q": "b", "s": "低"},
		{"q": "c", "s": "低"}, {"q": "c", "s": nil},
	}
	got := EvaluateRisk(BuildClasses(rs, []string{"q"}), "s")
	want := RiskReport{
		TotalClasses:               3,
		ClassesWithUniqueSensitive: 2,
		MinSensitiveDiversity:      1,
		AvgSensitiveDiversity:      4.0 / 3,
		HighRiskClasses: []RiskyClass{
			{Key: []string{"a"}, Size: 2, Diversity: 1},
			{Key: []string{"c"}, Size: 2, Diversity: 1},
		},
		RiskLevel: RiskHigh,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EvaluateRisk: diff (-want +got):\n%s", diff)
	}
}

func TestEvaluateRiskLevels(t *testing.T) {
	for _, tc := range []struct {
		desc string
		rs   []record.Record
		want string
	}{
		{
			desc: "every class diverse",
			rs:   []record.Record{{"q": "a", "s": 1}, {"q": "a", "s": 2}},
			want: RiskLow,
		},
		{
			desc: "one of four classes uniform",
			rs: []record.Record{
				{"q": "a", "s": 1}, {"q": "a", "s": 1},
				{"q": "b", "s": 1}, {"q": "b", "s": 2},
				{"q": "c", "s": 1}, {"q": "c", "s": 2},
				{"q": "d", "s": 1}, {"q": "d", "s": 2},
			},
			want: RiskMedium,
		},
		{
			desc: "no classes",
			want: RiskLow,
		},
	} {
		if got := EvaluateRisk(BuildClasses(tc.rs, []string{"q"}), "s").RiskLevel; got != tc.want {
			t.Errorf("EvaluateRisk: when %s got %s, want %s", tc.desc, got, tc.want)
		}
	}
}

func TestAssess(t *testing.T) {
	for _, tc := range []struct {
		stats Stats
		want  string
	}{
		{Stats{KValue: 10, IsKAnonymous: true}, PrivacyHigh},
		{Stats{KValue: 5, IsKAnonymous: true}, PrivacyMedium},
		{Stats{KValue: 3, IsKAnonymous: true}, PrivacyLow},
		{Stats{KValue: 20, IsKAnonymous: false}, PrivacyInsufficient},
	} {
		if got := Assess(tc.stats).PrivacyLevel; got != tc.want {
			t.Errorf("Assess(%+v): got %s, want %s", tc.stats, got, tc.want)
		}
	}
	a := Assess(Stats{KValue: 5, IsKAnonymous: true, InformationLoss: 0.25})
	if a.DataUtility != 0.75 {
		t.Errorf("Assess: got data utility %f, want 0.75", a.DataUtility)
	}
}
