package kanon

import (
	"context"
	"fmt"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/infoloss"
	"github.com/delique1984/Experience5-privacy/record"
	"github.com/delique1984/Experience5-privacy/taxonomy"
)

// Valid range of the anonymity parameter k.
const (
	MinK = 2
	MaxK = 100
)

// DefaultMaxIterations bounds the number of escalation rounds when a Request
// does not set one.
const DefaultMaxIterations = 3

// Request describes one anonymization call.
type Request struct {
	// QuasiIdentifiers are generalized and grouped on, in this order.
	QuasiIdentifiers []string
	// SensitiveAttributes are passed through untouched. They only feed
	// EvaluateRisk.
	SensitiveAttributes []string
	// Levels holds the initial generalization level of each quasi-identifier.
	// Missing entries default to 1.
	Levels map[string]int
	// Tags overrides the semantic type inferred from a field's name.
	Tags map[string]taxonomy.Tag
	// Hierarchies holds caller-defined generalization trees by field.
	Hierarchies map[string]*taxonomy.Hierarchy
	// MaxIterations defaults to DefaultMaxIterations.
	MaxIterations int
}

// Stats summarizes an anonymization run.
type Stats struct {
	OriginalRecords           int            `json:"original_records"`
	AnonymizedRecords         int            `json:"anonymized_records"`
	EquivalenceClasses        int            `json:"equivalence_classes"`
	MinClassSize              int            `json:"min_class_size"`
	MaxClassSize              int            `json:"max_class_size"`
	AvgClassSize              float64        `json:"avg_class_size"`
	KValue                    int            `json:"k_value"`
	IsKAnonymous              bool           `json:"is_k_anonymous"`
	ViolatedClasses           int            `json:"violated_classes"`
	InformationLoss           float64        `json:"information_loss"`
	Iterations                int            `json:"iterations"`
	FinalGeneralizationLevels map[string]int `json:"final_generalization_levels"`
	SuppressedRecords         int            `json:"suppressed_records"`
}

// Result is the output of Anonymize. Records are copies; the caller's
// records are never modified.
type Result struct {
	Records []record.Record
	Classes *Classes
	Loss    infoloss.Report
	Stats   Stats
}

// Anonymizer enforces k-anonymity for a fixed k. It holds no other state and
// is safe for concurrent use.
type Anonymizer struct {
	k int
}

// New returns an Anonymizer for k, which must lie in [MinK, MaxK].
func New(k int) (*Anonymizer, error) {
	if err := checks.CheckK(k, MinK, MaxK); err != nil {
		return nil, fmt.Errorf("kanon.New: %w", err)
	}
	return &Anonymizer{k: k}, nil
}

// K returns the anonymity parameter.
func (a *Anonymizer) K() int { return a.k }

// Anonymize generalizes the quasi-identifiers of records until every
// equivalence class holds at least k records or no further round is allowed.
// When the result is not k-anonymous, Stats.IsKAnonymous is false and
// Stats.ViolatedClasses counts the offending classes; callers must check it.
//
// It returns an *checks.InputError for an empty dataset or a quasi-identifier
// missing from the first record.
func (a *Anonymizer) Anonymize(ctx context.Context, records []record.Record, req Request) (*Result, error) {
	if len(records) == 0 {
		return nil, checks.NewInputError("Anonymize", "no records provided")
	}
	if len(req.QuasiIdentifiers) == 0 {
		return nil, checks.NewInputError("Anonymize", "no quasi-identifiers provided")
	}
	for _, qi := range req.QuasiIdentifiers {
		if !records[0].Has(qi) {
			return nil, checks.NewInputError("Anonymize", "quasi-identifier %q not found in data", qi)
		}
	}
	maxIter := req.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	if err := checks.CheckMaxIterations(maxIter); err != nil {
		return nil, fmt.Errorf("Anonymize: %w", err)
	}
	specs, err := taxonomy.ParseFields(req.QuasiIdentifiers, req.Levels, req.Tags, req.Hierarchies)
	if err != nil {
		return nil, fmt.Errorf("Anonymize: %w", err)
	}

	e := newEnforcer(a.k, maxIter, specs, records)
	e.run()

	loss, err := infoloss.Estimate(ctx, records, e.out, req.QuasiIdentifiers)
	if err != nil {
		return nil, fmt.Errorf("Anonymize: %w", err)
	}
	res := &Result{Records: e.out, Classes: e.classes, Loss: loss}
	res.Stats = e.stats(loss.Score)
	if !res.Stats.IsKAnonymous {
		log.Warningf("Anonymize: %d of %d classes still smaller than k=%d after %d iterations", res.Stats.ViolatedClasses, res.Stats.EquivalenceClasses, a.k, res.Stats.Iterations)
	}
	return res, nil
}

// enforcer runs the generalize, validate, escalate or suppress loop over a
// partition of the records into conforming records and a frontier that still
// needs work. Generalization always starts from the original values, at the
// levels of each record.
type enforcer struct {
	k, maxIter int
	specs      []taxonomy.FieldSpec
	fields     []string

	originals  []record.Record
	out        []record.Record
	levels     [][]int
	suppressed []bool

	frontier  []int
	violators []int
	classes   *Classes
	rounds    int
}

func newEnforcer(k, maxIter int, specs []taxonomy.FieldSpec, records []record.Record) *enforcer {
	e := &enforcer{
		k:          k,
		maxIter:    maxIter,
		specs:      specs,
		originals:  records,
		out:        make([]record.Record, len(records)),
		levels:     make([][]int, len(records)),
		suppressed: make([]bool, len(records)),
		frontier:   make([]int, len(records)),
	}
	for _, s := range specs {
		e.fields = append(e.fields, s.Name)
	}
	for i := range records {
		e.levels[i] = make([]int, len(specs))
		for j, s := range specs {
			e.levels[i][j] = s.Level
		}
		e.frontier[i] = i
	}
	return e
}

func (e *enforcer) run() {
	st := generalizing
	for st != done {
		log.V(2).Infof("kanon: state %v, round %d, frontier %d", st, e.rounds, len(e.frontier))
		switch st {
		case generalizing:
			e.generalize()
			st = validating
		case validating:
			st = e.validate()
		case escalating:
			st = e.escalate()
		case suppressing:
			st = e.suppress()
		}
	}
	if e.classes == nil {
		e.classes = BuildClasses(e.out, e.fields)
	}
}

func (e *enforcer) generalize() {
	for _, i := range e.frontier {
		r := e.originals[i].Clone()
		for j, s := range e.specs {
			if _, ok := r[s.Name]; !ok {
				continue
			}
			r[s.Name] = s.Generalize(r[s.Name], e.levels[i][j])
		}
		e.out[i] = r
	}
	e.frontier = nil
}

func (e *enforcer) validate() enforcerState {
	e.rounds++
	e.classes = BuildClasses(e.out, e.fields)
	if Validate(e.classes, e.k).IsKAnonymous || e.rounds > e.maxIter {
		return done
	}
	e.violators = violators(e.classes, e.k)
	if len(e.violators) >= e.k {
		return escalating
	}
	return suppressing
}

// escalate raises the level of every quasi-identifier of the pooled violators
// by one, capped at the top level, and sends them back to be generalized.
func (e *enforcer) escalate() enforcerState {
	for _, i := range e.violators {
		if e.suppressed[i] {
			continue
		}
		bumped := false
		for j := range e.specs {
			if e.levels[i][j] < taxonomy.MaxLevel {
				e.levels[i][j]++
				bumped = true
			}
		}
		if bumped {
			e.frontier = append(e.frontier, i)
		}
	}
	if len(e.frontier) == 0 {
		log.V(1).Infof("kanon: %d violating records are already at the top level", len(e.violators))
		return done
	}
	return generalizing
}

// suppress replaces every quasi-identifier of a pool too small to form a
// class of its own. It is terminal for the pool.
func (e *enforcer) suppress() enforcerState {
	progress := false
	for _, i := range e.violators {
		if e.suppressed[i] {
			continue
		}
		r := e.out[i]
		for _, f := range e.fields {
			if _, ok := r[f]; ok {
				r[f] = taxonomy.Suppressed
			}
		}
		e.suppressed[i] = true
		progress = true
	}
	if !progress {
		return done
	}
	e.classes = BuildClasses(e.out, e.fields)
	return done
}

func (e *enforcer) stats(loss float64) Stats {
	v := Validate(e.classes, e.k)
	sizes := make([]float64, 0, e.classes.Len())
	for _, s := range e.classes.Sizes() {
		sizes = append(sizes, float64(s))
	}
	st := Stats{
		OriginalRecords:           len(e.originals),
		AnonymizedRecords:         len(e.out),
		EquivalenceClasses:        e.classes.Len(),
		MinClassSize:              v.MinClassSize,
		KValue:                    e.k,
		IsKAnonymous:              v.IsKAnonymous,
		ViolatedClasses:           v.ViolatingClasses,
		InformationLoss:           loss,
		Iterations:                e.rounds,
		FinalGeneralizationLevels: make(map[string]int, len(e.specs)),
	}
	if len(sizes) > 0 {
		st.MaxClassSize = int(floats.Max(sizes))
		st.AvgClassSize = floats.Sum(sizes) / float64(len(sizes))
	}
	for j, s := range e.specs {
		level := s.Level
		for i := range e.levels {
			if !e.suppressed[i] && e.levels[i][j] > level {
				level = e.levels[i][j]
			}
		}
		st.FinalGeneralizationLevels[s.Name] = level
	}
	for _, s := range e.suppressed {
		if s {
			st.SuppressedRecords++
		}
	}
	return st
}
