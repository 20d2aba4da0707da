// Package taxonomy maps raw field values to coarser values at a given
// generalization level. Level 1 is the most specific level and level 3 the
// coarsest; every level is a deterministic function of the raw value.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/delique1984/Experience5-privacy/checks"
)

// Sentinel values produced by generalization.
const (
	// Unknown is returned for nil, empty or unparseable input.
	Unknown = "未知"
	// Suppressed replaces a value that is fully hidden.
	Suppressed = "*"
	// Other is the fallback ancestor of values missing from a Hierarchy.
	Other = "其他"
)

// Generalization levels.
const (
	MinLevel = 1
	MaxLevel = 3
)

// Tag is the semantic type of a field. It selects the generalization routine
// applied to the field's values.
type Tag int

// Field semantic types.
const (
	GenericString Tag = iota
	Revenue
	MarketShare
	RDRatio
	ChainStage
	Headquarters
	SensitivityLevel
	Custom
)

var tagNames = map[Tag]string{
	GenericString:    "generic_string",
	Revenue:          "revenue",
	MarketShare:      "market_share",
	RDRatio:          "rd_ratio",
	ChainStage:       "chain_stage",
	Headquarters:     "headquarters",
	SensitivityLevel: "sensitivity_level",
	Custom:           "custom",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// ParseTag converts a tag name as produced by Tag.String into a Tag.
func ParseTag(name string) (Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, s := range tagNames {
		if s == name {
			return t, nil
		}
	}
	return GenericString, checks.NewInputError("ParseTag", "unknown field tag %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Columns of the enterprise records with a dedicated generalization routine.
var columnTags = map[string]Tag{
	"revenue_2023":          Revenue,
	"domestic_market_share": MarketShare,
	"r_and_d_ratio":         RDRatio,
	"chain_stage":           ChainStage,
	"headquarters":          Headquarters,
	"sensitivity_level":     SensitivityLevel,
}

// TagForField returns the tag of a known column, and GenericString for any
// other field name.
func TagForField(field string) Tag {
	if t, ok := columnTags[field]; ok {
		return t
	}
	return GenericString
}

// Generalizer coarsens the values of one semantic type.
type Generalizer interface {
	// Generalize returns v at the given level. Levels outside [1, 3] are
	// clamped. It never fails: unusable input yields Unknown.
	Generalize(v any, level int) string
	Tag() Tag
}

var builtin = map[Tag]Generalizer{
	GenericString:    genericString{},
	Revenue:          revenueBins,
	MarketShare:      marketShareBins,
	RDRatio:          rdRatioBins,
	ChainStage:       chainStage{},
	Headquarters:     headquarters{},
	SensitivityLevel: sensitivityLevel{},
}

// For returns the built-in Generalizer for tag. Custom has no built-in
// Generalizer; use a Hierarchy instead.
func For(tag Tag) (Generalizer, error) {
	g, ok := builtin[tag]
	if !ok {
		return nil, checks.NewInputError("taxonomy.For", "no built-in generalizer for tag %v", tag)
	}
	return g, nil
}

// Generalize coarsens value according to tag at level. Custom and unknown
// tags are treated as generic strings.
func Generalize(value any, tag Tag, level int) string {
	g, ok := builtin[tag]
	if !ok {
		g = genericString{}
	}
	return g.Generalize(value, level)
}

// ClampLevel returns level limited to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// FieldSpec is a quasi-identifier together with its resolved Generalizer and
// its initial generalization level.
type FieldSpec struct {
	Name        string
	Level       int
	Generalizer Generalizer
}

// Tag returns the semantic type of the field.
func (f FieldSpec) Tag() Tag {
	return f.Generalizer.Tag()
}

// Generalize applies the field's Generalizer.
func (f FieldSpec) Generalize(v any, level int) string {
	return f.Generalizer.Generalize(v, level)
}

// ParseFields resolves the Generalizer of each field once. A field with an
// entry in hierarchies uses it; otherwise the tag comes from tags and then
// from TagForField. Levels default to 1, must be at least 1 and are clamped
// to MaxLevel.
func ParseFields(fields []string, levels map[string]int, tags map[string]Tag, hierarchies map[string]*Hierarchy) ([]FieldSpec, error) {
	specs := make([]FieldSpec, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, name := range fields {
		if name == "" {
			return nil, checks.NewInputError("ParseFields", "empty field name")
		}
		if seen[name] {
			return nil, checks.NewInputError("ParseFields", "duplicate field %q", name)
		}
		seen[name] = true

		level := MinLevel
		if l, ok := levels[name]; ok {
			if err := checks.CheckGeneralizationLevel(name, l); err != nil {
				return nil, fmt.Errorf("ParseFields: %w", err)
			}
			level = ClampLevel(l)
		}

		var g Generalizer
		if h, ok := hierarchies[name]; ok && h != nil {
			g = h
		} else {
			tag, ok := tags[name]
			if !ok {
				tag = TagForField(name)
			}
			var err error
			if g, err = For(tag); err != nil {
				return nil, fmt.Errorf("ParseFields: field %q: %w", name, err)
			}
		}
		specs = append(specs, FieldSpec{Name: name, Level: level, Generalizer: g})
	}
	return specs, nil
}
