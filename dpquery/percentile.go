package dpquery

import (
	"fmt"
	"sort"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

// DefaultRanks are the percentile ranks computed when none are given.
var DefaultRanks = []float64{25, 50, 75}

// RankValue is one noised percentile.
type RankValue struct {
	Rank      float64 `json:"percentile"`
	Value     float64 `json:"noisy_value"`
	TrueValue float64 `json:"true_value"`
}

// PercentileResult holds noised percentiles in the order of the requested
// ranks.
type PercentileResult struct {
	Percentiles []RankValue `json:"percentiles"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Value returns the noised percentile of rank p.
func (r *PercentileResult) Value(p float64) (float64, bool) {
	for _, rv := range r.Percentiles {
		if rv.Rank == p {
			return rv.Value, true
		}
	}
	return 0, false
}

// Percentile returns the nearest-rank percentiles of field over the records
// matching filter: the value at index ⌊n·p/100⌋ of the sorted values, capped
// at n-1. Each is noised with the sensitivity of field and clipped to its
// bounds. The diagnostics describe the median rank when present, else the
// first rank, and count one release per rank.
//
// Without any numeric value it returns a result flagged NoValidData and a
// *checks.ComputationWarning.
func (e *Engine) Percentile(rs []record.Record, field string, ranks []float64, filter record.Filter) (*PercentileResult, error) {
	if len(ranks) == 0 {
		ranks = DefaultRanks
	}
	for _, p := range ranks {
		if err := checks.CheckPercentile(p); err != nil {
			return nil, fmt.Errorf("Percentile: %w", err)
		}
	}
	d := e.diagnostics(PercentileQuery, field)
	vs, err := numericValues(filter.Apply(rs), field)
	if err != nil {
		return &PercentileResult{Diagnostics: noValidData(d)}, err
	}
	sort.Float64s(vs)
	d.Count = len(vs)
	d.Sensitivity, d.SensitivitySource = e.opts.Sensitivity(field, vs)

	res := &PercentileResult{Percentiles: make([]RankValue, 0, len(ranks))}
	reported := ranks[0]
	for _, p := range ranks {
		if p == 50 {
			reported = p
		}
	}
	for _, p := range ranks {
		pd := d
		pd.TrueValue = NearestRank(vs, p)
		if err := e.noised(&pd); err != nil {
			return nil, fmt.Errorf("Percentile: %w", err)
		}
		v := pd.NoisyValue
		if pd.Bounds != nil {
			v = noise.Clip(v, *pd.Bounds)
		}
		finish(&pd, v)
		res.Percentiles = append(res.Percentiles, RankValue{Rank: p, Value: v, TrueValue: pd.TrueValue})
		if p == reported {
			res.Diagnostics = pd
		}
	}
	res.Diagnostics.Releases = len(ranks)
	return res, nil
}

// NearestRank returns the element of the ascending slice sorted at index
// ⌊len·p/100⌋, capped at the last element.
func NearestRank(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p / 100)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
