package taxonomy

import (
	"fmt"
	"strings"

	"github.com/delique1984/Experience5-privacy/record"
)

// Hierarchy is a caller-defined generalization tree for one field. Each value
// maps to its ancestors, nearest first: level 2 yields the first ancestor,
// level 3 the second. A value with fewer ancestors than the level keeps its
// topmost one, and a value without an entry generalizes to Other.
//
// A Hierarchy is read-only after construction and safe for concurrent use.
type Hierarchy struct {
	name      string
	ancestors map[string][]string
}

// NewHierarchy returns a Hierarchy built from parents, which maps each value
// to its ancestors, nearest first. Every value must have at least one
// ancestor.
func NewHierarchy(name string, parents map[string][]string) (*Hierarchy, error) {
	h := &Hierarchy{name: name, ancestors: make(map[string][]string, len(parents))}
	for v, anc := range parents {
		if len(anc) == 0 {
			return nil, fmt.Errorf("NewHierarchy: value %q of hierarchy %q has no ancestor", v, name)
		}
		h.ancestors[strings.TrimSpace(v)] = append([]string(nil), anc...)
	}
	return h, nil
}

// Name returns the name the Hierarchy was created with.
func (h *Hierarchy) Name() string { return h.name }

// Tag returns Custom.
func (h *Hierarchy) Tag() Tag { return Custom }

// Generalize returns v at level within the hierarchy.
func (h *Hierarchy) Generalize(v any, level int) string {
	s := categoricalText(v)
	if s == "" {
		return Unknown
	}
	level = ClampLevel(level)
	if level == 1 {
		return s
	}
	anc, ok := h.ancestors[s]
	if !ok {
		return Other
	}
	if i := level - 2; i < len(anc) {
		return anc[i]
	}
	return anc[len(anc)-1]
}

// Values returns the number of values with an entry in the hierarchy.
func (h *Hierarchy) Values() int { return len(h.ancestors) }

// Contains reports whether v has an entry in the hierarchy.
func (h *Hierarchy) Contains(v any) bool {
	_, ok := h.ancestors[strings.TrimSpace(record.String(v))]
	return ok
}
