package dpquery

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

// Result is a noised scalar answer.
type Result struct {
	Value       float64     `json:"noisy_value"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Sum returns the noised sum of the numeric values of field over the records
// matching filter. The noise is calibrated to the sensitivity of field.
//
// Without any numeric value it returns a result flagged NoValidData and a
// *checks.ComputationWarning.
func (e *Engine) Sum(rs []record.Record, field string, filter record.Filter) (*Result, error) {
	d := e.diagnostics(SumQuery, field)
	vs, err := numericValues(filter.Apply(rs), field)
	if err != nil {
		return &Result{Diagnostics: noValidData(d)}, err
	}
	d.TrueValue = floats.Sum(vs)
	d.Count = len(vs)
	d.Sensitivity, d.SensitivitySource = e.opts.Sensitivity(field, vs)
	if err := e.noised(&d); err != nil {
		return nil, fmt.Errorf("Sum: %w", err)
	}
	finish(&d, d.NoisyValue)
	return &Result{Value: d.NoisyValue, Diagnostics: d}, nil
}

// Average returns the noised mean of the numeric values of field over the
// records matching filter. One record moves the mean by at most the field's
// sensitivity divided by the number of values, so that is the sensitivity
// used. The answer is clipped to the bounds of field.
//
// Without any numeric value it returns a result flagged NoValidData and a
// *checks.ComputationWarning.
func (e *Engine) Average(rs []record.Record, field string, filter record.Filter) (*Result, error) {
	d := e.diagnostics(AverageQuery, field)
	vs, err := numericValues(filter.Apply(rs), field)
	if err != nil {
		return &Result{Diagnostics: noValidData(d)}, err
	}
	n := float64(len(vs))
	d.TrueValue = floats.Sum(vs) / n
	d.Count = len(vs)
	s, src := e.opts.Sensitivity(field, vs)
	d.Sensitivity, d.SensitivitySource = s/n, src
	if err := e.noised(&d); err != nil {
		return nil, fmt.Errorf("Average: %w", err)
	}
	v := d.NoisyValue
	if d.Bounds != nil {
		v = noise.Clip(v, *d.Bounds)
	}
	finish(&d, v)
	return &Result{Value: v, Diagnostics: d}, nil
}
