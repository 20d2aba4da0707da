package dpquery

import (
	"context"
	"fmt"
	"math"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/rand"
	"github.com/delique1984/Experience5-privacy/record"
)

// FieldMetrics measure the error privatization introduced into one field.
type FieldMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	// RelativeError is the mean of |noisy - original| / |original| over the
	// non-zero original values.
	RelativeError     float64                 `json:"relative_error"`
	MaxDifference     float64                 `json:"max_difference"`
	MinDifference     float64                 `json:"min_difference"`
	Sensitivity       float64                 `json:"sensitivity"`
	SensitivitySource noise.SensitivitySource `json:"sensitivity_source"`
	Count             int                     `json:"count"`
}

// PrivatizeResult holds privatized copies of the records and the error
// metrics of each privatized field.
type PrivatizeResult struct {
	Records   []record.Record         `json:"privatized_records"`
	Metrics   map[string]FieldMetrics `json:"field_metrics"`
	Epsilon   float64                 `json:"epsilon"`
	Delta     float64                 `json:"delta,omitempty"`
	Mechanism noise.Kind              `json:"mechanism"`
	Bounds    map[string]noise.Bounds `json:"bounds"`
}

type fieldNoise struct {
	noisy   []float64
	idx     []int
	metrics FieldMetrics
}

// Privatize adds noise independently to every numeric cell of fields, clipped
// to the bounds of the field when it has any. Missing, nil and non-numeric
// cells are left untouched. Fields are processed concurrently, each with its
// own source split from the engine's, so the output only depends on the
// engine's source and the order of fields.
//
// A field without any numeric value gets no metrics; an empty dataset is an
// *checks.InputError.
func (e *Engine) Privatize(ctx context.Context, rs []record.Record, fields []string) (*PrivatizeResult, error) {
	if len(rs) == 0 {
		return nil, checks.NewInputError("Privatize", "no records provided")
	}
	srcs := rand.Split(e.cal.Source(), len(fields))
	results := make([]*fieldNoise, len(fields))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range fields {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn, err := e.privatizeField(rs, f, srcs[i])
			if err != nil {
				return fmt.Errorf("field %q: %w", f, err)
			}
			results[i] = fn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Privatize: %w", err)
	}

	res := &PrivatizeResult{
		Records:   record.CloneAll(rs),
		Metrics:   make(map[string]FieldMetrics, len(fields)),
		Epsilon:   e.cal.Epsilon(),
		Mechanism: e.cal.Kind(),
		Bounds:    e.opts.EffectiveBounds(),
	}
	if res.Mechanism == noise.GaussianNoise {
		res.Delta = e.cal.Delta()
	}
	for i, f := range fields {
		fn := results[i]
		if fn == nil {
			log.Warningf("Privatize: field %q has no numeric value", f)
			continue
		}
		for j, ri := range fn.idx {
			res.Records[ri][f] = fn.noisy[j]
		}
		res.Metrics[f] = fn.metrics
	}
	return res, nil
}

func (e *Engine) privatizeField(rs []record.Record, field string, src rand.Source) (*fieldNoise, error) {
	var idx []int
	var orig []float64
	for i, r := range rs {
		if f, ok := record.Float(r[field]); ok {
			idx = append(idx, i)
			orig = append(orig, f)
		}
	}
	if len(orig) == 0 {
		return nil, nil
	}
	s, ssrc := e.opts.Sensitivity(field, orig)
	b, hasBounds := e.opts.Bounds(field)
	n := noise.ToNoise(e.cal.Kind())

	fn := &fieldNoise{idx: idx, noisy: make([]float64, len(orig))}
	diffs := make([]float64, len(orig))
	sq := make([]float64, len(orig))
	var rel []float64
	for j, x := range orig {
		v, err := n.AddNoise(x, s, e.cal.Epsilon(), e.cal.Delta(), src)
		if err != nil {
			return nil, err
		}
		if hasBounds {
			v = noise.Clip(v, b)
		}
		fn.noisy[j] = v
		diffs[j] = math.Abs(v - x)
		sq[j] = diffs[j] * diffs[j]
		if x != 0 {
			rel = append(rel, diffs[j]/math.Abs(x))
		}
	}
	fn.metrics = FieldMetrics{
		MAE:               stat.Mean(diffs, nil),
		RMSE:              math.Sqrt(stat.Mean(sq, nil)),
		MaxDifference:     floats.Max(diffs),
		MinDifference:     floats.Min(diffs),
		Sensitivity:       s,
		SensitivitySource: ssrc,
		Count:             len(orig),
	}
	if len(rel) > 0 {
		fn.metrics.RelativeError = stat.Mean(rel, nil)
	}
	return fn, nil
}
