package dpquery

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

func TestPrivatize(t *testing.T) {
	rs := enterprises()
	before := record.CloneAll(rs)
	e := newEngine(t, config.Overrides{Epsilon: 0.1}, 20)
	fields := []string{"revenue_2023", "r_and_d_ratio", "name"}

	res, err := e.Privatize(context.Background(), rs, fields)
	if err != nil {
		t.Fatalf("Privatize: %v", err)
	}
	if diff := cmp.Diff(before, rs); diff != "" {
		t.Errorf("Privatize modified its input: diff (-before +after):\n%s", diff)
	}
	if len(res.Records) != len(rs) {
		t.Fatalf("Privatize: got %d records, want %d", len(res.Records), len(rs))
	}
	bounds := map[string]noise.Bounds{"revenue_2023": {Lower: 0, Upper: 1000}, "r_and_d_ratio": {Lower: 0, Upper: 30}}
	for i, r := range res.Records {
		for f, b := range bounds {
			if _, ok := record.Float(rs[i][f]); !ok {
				if !record.Equal(r[f], rs[i][f]) {
					t.Errorf("record %d field %q: got %v, want the non-numeric %v untouched", i, f, r[f], rs[i][f])
				}
				continue
			}
			v, ok := r[f].(float64)
			if !ok || v < b.Lower || v > b.Upper {
				t.Errorf("record %d field %q: got %v, want a float64 within %+v", i, f, r[f], b)
			}
		}
		if r["name"] != rs[i]["name"] || r["chain_stage"] != rs[i]["chain_stage"] {
			t.Errorf("record %d: string fields changed to %v", i, r)
		}
	}

	if _, ok := res.Metrics["name"]; ok {
		t.Errorf("Privatize: got metrics for the non-numeric field name")
	}
	m, ok := res.Metrics["revenue_2023"]
	if !ok {
		t.Fatalf("Privatize: no metrics for revenue_2023")
	}
	if m.Count != 4 || m.Sensitivity != 1000 || m.SensitivitySource != noise.FromTable {
		t.Errorf("revenue_2023 metrics: got %+v", m)
	}
	if m.MinDifference > m.MAE || m.MAE > m.MaxDifference || m.MAE > m.RMSE {
		t.Errorf("revenue_2023 metrics out of order: %+v", m)
	}
	if res.Epsilon != 0.1 || res.Mechanism != noise.LaplaceNoise || res.Delta != 0 {
		t.Errorf("Privatize: got ε=%v δ=%v mechanism %v", res.Epsilon, res.Delta, res.Mechanism)
	}
	if diff := cmp.Diff(config.Default().Bounds, res.Bounds); diff != "" {
		t.Errorf("Privatize bounds: diff (-want +got):\n%s", diff)
	}
}

func TestPrivatizeDeterministic(t *testing.T) {
	fields := []string{"revenue_2023", "r_and_d_ratio"}
	a, err := newEngine(t, config.Overrides{}, 21).Privatize(context.Background(), enterprises(), fields)
	if err != nil {
		t.Fatalf("Privatize: %v", err)
	}
	b, err := newEngine(t, config.Overrides{}, 21).Privatize(context.Background(), enterprises(), fields)
	if err != nil {
		t.Fatalf("Privatize: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Privatize with equally seeded engines: diff (-a +b):\n%s", diff)
	}
}

func TestPrivatizeCustomBounds(t *testing.T) {
	rs := []record.Record{{"revenue_2023": 8.0}, {"revenue_2023": 2.0}}
	ov := config.Overrides{Bounds: map[string]noise.Bounds{"revenue_2023": {Lower: 0, Upper: 10}}}
	res, err := newEngine(t, ov, 22).Privatize(context.Background(), rs, []string{"revenue_2023"})
	if err != nil {
		t.Fatalf("Privatize: %v", err)
	}
	for i, r := range res.Records {
		if v := r["revenue_2023"].(float64); v < 0 || v > 10 {
			t.Errorf("record %d: got %v, want within [0, 10]", i, v)
		}
	}
	if m := res.Metrics["revenue_2023"]; m.Sensitivity != 10 {
		t.Errorf("Privatize: got sensitivity %v, want the width of the custom bounds", m.Sensitivity)
	}

	// The custom bounds belong to that call only.
	later, err := newEngine(t, config.Overrides{}, 22).Privatize(context.Background(), rs, []string{"revenue_2023"})
	if err != nil {
		t.Fatalf("Privatize: %v", err)
	}
	if got := later.Bounds["revenue_2023"]; got.Upper != 1000 {
		t.Errorf("Privatize after custom bounds: got %+v, want the configured bounds", got)
	}
}

func TestPrivatizeEmpty(t *testing.T) {
	_, err := newEngine(t, config.Overrides{}, 23).Privatize(context.Background(), nil, []string{"revenue_2023"})
	var ie *checks.InputError
	if !errors.As(err, &ie) {
		t.Errorf("Privatize(nil): got %v, want *checks.InputError", err)
	}
}

func TestPrivatizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t, config.Overrides{}, 24).Privatize(ctx, enterprises(), []string{"revenue_2023"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Privatize with canceled context: got %v, want context.Canceled", err)
	}
}

func TestAssess(t *testing.T) {
	for _, tc := range []struct {
		epsilon     float64
		metrics     map[string]FieldMetrics
		wantLevel   string
		wantUtility float64
	}{
		{0.5, nil, PrivacyHigh, 0},
		{1, map[string]FieldMetrics{"a": {RelativeError: 0.5}, "b": {RelativeError: 1.5}}, PrivacyMedium, 0.5},
		{2, map[string]FieldMetrics{"a": {RelativeError: 0}}, PrivacyMedium, 1},
		{5, map[string]FieldMetrics{"a": {RelativeError: 3}}, PrivacyLow, 0.25},
	} {
		got := Assess(&PrivatizeResult{Epsilon: tc.epsilon, Metrics: tc.metrics})
		want := Assessment{PrivacyLevel: tc.wantLevel, PrivacyBudget: tc.epsilon, DataUtility: tc.wantUtility}
		if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-12 })); diff != "" {
			t.Errorf("Assess(ε=%v): diff (-want +got):\n%s", tc.epsilon, diff)
		}
	}
}
