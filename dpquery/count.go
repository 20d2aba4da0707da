package dpquery

import (
	"fmt"

	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

// CountResult is a noised record count.
type CountResult struct {
	Value       int64       `json:"noisy_count"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Count returns the number of records of rs matching filter, noised with
// sensitivity 1 and rounded to the nearest non-negative integer.
func (e *Engine) Count(rs []record.Record, filter record.Filter) (*CountResult, error) {
	matched := filter.Apply(rs)
	d := e.diagnostics(CountQuery, "")
	d.TrueValue = float64(len(matched))
	d.Count = len(matched)
	d.Sensitivity, d.SensitivitySource = 1, noise.FromDefault
	if err := e.noised(&d); err != nil {
		return nil, fmt.Errorf("Count: %w", err)
	}
	v := noise.RoundCount(d.NoisyValue)
	finish(&d, float64(v))
	return &CountResult{Value: v, Diagnostics: d}, nil
}
