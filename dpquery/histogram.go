package dpquery

import (
	"fmt"
	"sort"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

// HistogramResult is a histogram with independently noised bin counts.
// Bins are keyed by the string form of the bin value.
type HistogramResult struct {
	Bins        []string         `json:"bins"`
	Counts      map[string]int64 `json:"noisy_histogram"`
	TrueCounts  map[string]int   `json:"true_histogram"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

// Histogram counts the non-nil values of field over the records matching
// filter into bins. Without explicit bins, the bins are the distinct values
// of the field in ascending order. Values outside the bins are not counted.
// Each bin is noised with sensitivity 1 and rounded to the nearest
// non-negative integer. The diagnostics hold the totals over all bins.
//
// Without any non-nil value it returns a result flagged NoValidData and a
// *checks.ComputationWarning.
func (e *Engine) Histogram(rs []record.Record, field string, bins []any, filter record.Filter) (*HistogramResult, error) {
	d := e.diagnostics(HistogramQuery, field)
	d.Bounds = nil
	var values []any
	for _, r := range filter.Apply(rs) {
		if v, ok := r[field]; ok && v != nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return &HistogramResult{Diagnostics: noValidData(d)}, &checks.ComputationWarning{Field: field, Msg: "no non-nil values to count"}
	}
	if len(bins) == 0 {
		bins = distinctSorted(values)
	}

	res := &HistogramResult{
		Counts:     make(map[string]int64, len(bins)),
		TrueCounts: make(map[string]int, len(bins)),
	}
	for _, b := range bins {
		k := record.String(b)
		if _, dup := res.TrueCounts[k]; dup {
			continue
		}
		res.Bins = append(res.Bins, k)
		res.TrueCounts[k] = 0
	}
	for _, v := range values {
		k := record.String(v)
		if _, ok := res.TrueCounts[k]; ok {
			res.TrueCounts[k]++
		}
	}

	d.Count = len(values)
	d.Sensitivity, d.SensitivitySource = 1, noise.FromDefault
	var trueTotal, noisyTotal int64
	for _, k := range res.Bins {
		noisy, err := e.cal.Apply(float64(res.TrueCounts[k]), 1)
		if err != nil {
			return nil, fmt.Errorf("Histogram: %w", err)
		}
		res.Counts[k] = noise.RoundCount(noisy)
		trueTotal += int64(res.TrueCounts[k])
		noisyTotal += res.Counts[k]
	}
	d.TrueValue = float64(trueTotal)
	// Apply already validated sensitivity 1.
	d.NoiseScale, _ = e.cal.Scale(1)
	finish(&d, float64(noisyTotal))
	res.Diagnostics = d
	return res, nil
}

// distinctSorted returns the distinct values of vs by string form, ordered
// numerically when all of them are numbers and lexically otherwise.
func distinctSorted(vs []any) []any {
	seen := make(map[string]bool)
	var out []any
	numeric := true
	for _, v := range vs {
		k := record.String(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
		if !record.IsNumber(v) {
			numeric = false
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			a, _ := record.Float(out[i])
			b, _ := record.Float(out[j])
			return a < b
		}
		return record.String(out[i]) < record.String(out[j])
	})
	return out
}
