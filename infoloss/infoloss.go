// Package infoloss scores how much generalization and suppression degraded
// the quasi-identifier cells of a dataset, using a normalized certainty
// penalty.
package infoloss

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/record"
)

// suppressedValues are generalized values that carry no information.
var suppressedValues = map[string]bool{
	"*":    true,
	"?":    true,
	"N/A":  true,
	"nan":  true,
	"None": true,
	"":     true,
	"未知":   true,
}

// interval matches the leading "lo-hi" or "lo~hi" range of a generalized
// numeric label such as "10-50亿" or "[20~30]".
var interval = regexp.MustCompile(`^\[?(\d+\.?\d*)\s*[-~]\s*(\d+\.?\d*)\]?`)

// Report is the information loss of an anonymized dataset.
type Report struct {
	// Score is the mean loss over all (record, field) cells, in [0, 1].
	Score float64 `json:"information_loss"`
	// PerField is the mean loss of the cells of each field.
	PerField map[string]float64 `json:"per_field_loss"`
	Cells    int                `json:"cells"`
}

// Utility returns 1 - Score.
func (r Report) Utility() float64 {
	return 1 - r.Score
}

// Estimate compares anonymized with original record by record over fields.
// Cells where either record lacks the field are skipped. Fields are scored
// concurrently.
func Estimate(ctx context.Context, original, anonymized []record.Record, fields []string) (Report, error) {
	if len(original) != len(anonymized) {
		return Report{}, checks.NewInputError("infoloss.Estimate", "got %d original and %d anonymized records", len(original), len(anonymized))
	}
	type fieldLoss struct {
		total float64
		cells int
	}
	losses := make([]fieldLoss, len(fields))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range fields {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, numeric := Range(original, f)
			for j := range original {
				o, ok := original[j][f]
				if !ok {
					continue
				}
				a, ok := anonymized[j][f]
				if !ok {
					continue
				}
				losses[i].total += CellLoss(o, a, r, numeric)
				losses[i].cells++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := Report{PerField: make(map[string]float64, len(fields))}
	var total float64
	for i, f := range fields {
		total += losses[i].total
		rep.Cells += losses[i].cells
		if losses[i].cells > 0 {
			rep.PerField[f] = losses[i].total / float64(losses[i].cells)
		}
	}
	if rep.Cells > 0 {
		rep.Score = total / float64(rep.Cells)
	}
	log.V(1).Infof("infoloss: %d cells over %d fields, loss %.4f", rep.Cells, len(fields), rep.Score)
	return rep, nil
}

// Range returns max - min of field over records, or 1 when all values are
// equal. numeric is false when some non-nil value of the field is not a
// number, or when no value is.
func Range(records []record.Record, field string) (r float64, numeric bool) {
	var vs []float64
	for _, rec := range records {
		v, ok := rec[field]
		if !ok || v == nil {
			continue
		}
		f, ok := record.Float(v)
		if !ok {
			return 0, false
		}
		vs = append(vs, f)
	}
	if len(vs) == 0 {
		return 0, false
	}
	if r = floats.Max(vs) - floats.Min(vs); r <= 0 {
		r = 1
	}
	return r, true
}

// CellLoss scores one cell. An unchanged value costs 0 and a suppressed one 1.
// In a numeric column of range r, an interval label of width w costs
// min(w/r, 1). A partially masked string costs its share of mask runes.
// Anything else costs 1.
func CellLoss(original, anonymized any, r float64, numeric bool) float64 {
	o, a := record.String(original), record.String(anonymized)
	if o == a {
		return 0
	}
	if suppressedValues[a] {
		return 1
	}
	if numeric && r > 0 {
		if w := IntervalWidth(a); w > 0 {
			return math.Min(w/r, 1)
		}
	}
	if stars := strings.Count(a, "*"); stars > 0 {
		return float64(stars) / float64(len([]rune(a)))
	}
	return 1
}

// IntervalWidth returns hi - lo of a label starting with a "lo-hi" range, and
// 0 for any other label.
func IntervalWidth(label string) float64 {
	m := interval.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	lo, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	hi, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0
	}
	return math.Abs(hi - lo)
}
