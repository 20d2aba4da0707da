package taxonomy

import (
	"math"
	"sort"
	"strconv"

	"github.com/delique1984/Experience5-privacy/record"
)

// binned generalizes a non-negative number to the half-open bin containing it.
// levels[i] holds the ascending interior boundaries of level i+1; the lowest
// bin starts at 0 and the highest is open. A nil entry fully suppresses the
// value at that level. Each level's boundaries are a subset of the previous
// level's, so a coarser bin always contains the finer one.
type binned struct {
	tag    Tag
	unit   string
	levels [MaxLevel][]float64
}

var (
	revenueBins = binned{
		tag:  Revenue,
		unit: "亿",
		levels: [MaxLevel][]float64{
			{1, 5, 10, 50, 100, 500},
			{10, 50, 100},
			{50, 100},
		},
	}
	marketShareBins = binned{
		tag:  MarketShare,
		unit: "%",
		levels: [MaxLevel][]float64{
			{1, 5, 10, 20, 50},
			{5, 20, 50},
			{20, 50},
		},
	}
	rdRatioBins = binned{
		tag:  RDRatio,
		unit: "%",
		levels: [MaxLevel][]float64{
			{5, 10, 15},
			{10},
			nil,
		},
	}
)

func (b binned) Tag() Tag { return b.tag }

func (b binned) Generalize(v any, level int) string {
	lo, hi, ok := b.Interval(v, level)
	if !ok {
		return Unknown
	}
	if b.levels[ClampLevel(level)-1] == nil {
		return Suppressed
	}
	if math.IsInf(hi, 1) {
		return formatBound(lo) + b.unit + "以上"
	}
	return formatBound(lo) + "-" + formatBound(hi) + b.unit
}

// Interval returns the bin [lo, hi) containing v at level. hi is +Inf for the
// open top bin and for a fully suppressed level. ok is false when v is not a
// non-negative number.
func (b binned) Interval(v any, level int) (lo, hi float64, ok bool) {
	x, ok := record.Float(v)
	if !ok || x < 0 {
		return 0, 0, false
	}
	bounds := b.levels[ClampLevel(level)-1]
	// Index of the first boundary strictly greater than x.
	i := sort.Search(len(bounds), func(i int) bool { return bounds[i] > x })
	lo, hi = 0, math.Inf(1)
	if i > 0 {
		lo = bounds[i-1]
	}
	if i < len(bounds) {
		hi = bounds[i]
	}
	return lo, hi, true
}

func formatBound(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Interval returns the bin of a numeric tag containing v at level. ok is
// false for non-numeric tags and for values that are not non-negative
// numbers.
func Interval(v any, tag Tag, level int) (lo, hi float64, ok bool) {
	b, isBinned := builtin[tag].(binned)
	if !isBinned {
		return 0, 0, false
	}
	return b.Interval(v, level)
}
