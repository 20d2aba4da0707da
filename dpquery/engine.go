// Package dpquery answers aggregate queries over records with differentially
// private results, and privatizes the numeric fields of whole records.
//
// Every query noises its true answer with the mechanism, ε and δ of an
// immutable config.Options snapshot, and returns the noised answer together
// with Diagnostics describing how it was produced.
package dpquery

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/rand"
	"github.com/delique1984/Experience5-privacy/record"
)

// DefaultAlpha is the significance level of the confidence intervals reported
// in Diagnostics.
const DefaultAlpha = 0.05

// Query types.
const (
	CountQuery      = "count"
	SumQuery        = "sum"
	AverageQuery    = "average"
	HistogramQuery  = "histogram"
	PercentileQuery = "percentile"
)

// Diagnostics describe how a noised answer was produced. They include the
// true answer and are meant for auditing and testing; whether to show them to
// end users is up to the caller.
type Diagnostics struct {
	QueryType          string                    `json:"query_type"`
	Field              string                    `json:"field,omitempty"`
	TrueValue          float64                   `json:"true_value"`
	NoisyValue         float64                   `json:"noisy_value"`
	Noise              float64                   `json:"noise"`
	NoiseScale         float64                   `json:"noise_scale"`
	Mechanism          noise.Kind                `json:"mechanism"`
	Epsilon            float64                   `json:"epsilon"`
	Delta              float64                   `json:"delta,omitempty"`
	Sensitivity        float64                   `json:"sensitivity"`
	SensitivitySource  noise.SensitivitySource   `json:"sensitivity_source"`
	Count              int                       `json:"count"`
	Bounds             *noise.Bounds             `json:"bounds,omitempty"`
	ConfidenceInterval *noise.ConfidenceInterval `json:"confidence_interval,omitempty"`
	// Releases is the number of noised answers the query released at Epsilon
	// each, which is the number of ε charges it costs under linear
	// composition. Histogram bins are disjoint and count once.
	Releases int `json:"releases"`
	// NoValidData is set when the field had no numeric value to aggregate.
	// The noised answer is then meaningless and the query also returns a
	// *checks.ComputationWarning.
	NoValidData bool `json:"no_valid_data,omitempty"`
}

// Engine runs queries with one options snapshot and one random source.
//
// Not thread-safe.
type Engine struct {
	opts *config.Options
	cal  *noise.Calibrator
}

// New returns an Engine using opts. A nil src defaults to a crypto-seeded
// source.
func New(opts *config.Options, src rand.Source) (*Engine, error) {
	if opts == nil {
		return nil, checks.NewInputError("dpquery.New", "nil options")
	}
	cal, err := noise.NewCalibrator(&noise.CalibratorOptions{
		Kind:    opts.Mechanism(),
		Epsilon: opts.Epsilon(),
		Delta:   opts.Delta(),
		Source:  src,
	})
	if err != nil {
		return nil, fmt.Errorf("dpquery.New: %w", err)
	}
	return &Engine{opts: opts, cal: cal}, nil
}

// Options returns the snapshot the engine was built with.
func (e *Engine) Options() *config.Options { return e.opts }

func (e *Engine) diagnostics(queryType, field string) Diagnostics {
	d := Diagnostics{
		QueryType: queryType,
		Field:     field,
		Mechanism: e.cal.Kind(),
		Epsilon:   e.cal.Epsilon(),
		Releases:  1,
	}
	if d.Mechanism == noise.GaussianNoise {
		d.Delta = e.cal.Delta()
	}
	if b, ok := e.opts.Bounds(field); ok && field != "" {
		d.Bounds = &b
	}
	return d
}

// noised adds noise to d.TrueValue with d.Sensitivity and fills in the noise
// fields of d.
func (e *Engine) noised(d *Diagnostics) error {
	noisy, err := e.cal.Apply(d.TrueValue, d.Sensitivity)
	if err != nil {
		return err
	}
	d.NoisyValue = noisy
	if d.NoiseScale, err = e.cal.Scale(d.Sensitivity); err != nil {
		return err
	}
	ci, err := e.cal.ConfidenceInterval(noisy, d.Sensitivity, DefaultAlpha)
	if err != nil {
		return err
	}
	d.ConfidenceInterval = &ci
	return nil
}

// finish sets the noised answer of d after rounding or clipping.
func finish(d *Diagnostics, v float64) {
	d.NoisyValue = v
	d.Noise = v - d.TrueValue
}

// numericValues returns the values of field in rs, failing with a
// *checks.ComputationWarning when there are none.
func numericValues(rs []record.Record, field string) ([]float64, error) {
	vs := record.Values(rs, field)
	if len(vs) == 0 {
		log.Warningf("dpquery: no valid data for field %q in %d records", field, len(rs))
		return nil, &checks.ComputationWarning{Field: field, Msg: fmt.Sprintf("none of %d records has a numeric value", len(rs))}
	}
	return vs, nil
}

func noValidData(d Diagnostics) Diagnostics {
	d.NoValidData = true
	d.Releases = 0
	return d
}
