package taxonomy

import (
	"strings"

	"github.com/delique1984/Experience5-privacy/record"
)

// Fallback ancestors of the categorical hierarchies.
const (
	OtherChainStage = "其他环节"
	ChainRoot       = "产业链企业"
	OtherRegion     = "其他地区"
	CountryRoot     = "中国"
	HighSensitive   = "高敏感"
	LowSensitive    = "低敏感"
)

// categoricalText returns the trimmed string form of v, or "" for nil and
// blank values.
func categoricalText(v any) string {
	return strings.TrimSpace(record.String(v))
}

// chainStage generalizes an industry chain stage such as "上游-原材料" to its
// category and then to the root of the chain.
type chainStage struct{}

func (chainStage) Tag() Tag { return ChainStage }

func (chainStage) Generalize(v any, level int) string {
	s := categoricalText(v)
	if s == "" {
		return Unknown
	}
	switch ClampLevel(level) {
	case 1:
		return s
	case 2:
		return chainCategory(s)
	}
	return ChainRoot
}

func chainCategory(stage string) string {
	for _, c := range chainCategories {
		for _, sub := range chainSubStages[c] {
			if strings.Contains(stage, sub) {
				return c
			}
		}
	}
	for _, c := range chainCategories {
		if strings.Contains(stage, c) {
			return c
		}
	}
	return OtherChainStage
}

// headquarters generalizes a city to its province and then to its macro
// region.
type headquarters struct{}

func (headquarters) Tag() Tag { return Headquarters }

func (headquarters) Generalize(v any, level int) string {
	city := categoricalText(v)
	if city == "" {
		return Unknown
	}
	level = ClampLevel(level)
	if level == 1 {
		return city
	}
	province, ok := cityProvince[city]
	if !ok {
		return OtherRegion
	}
	if level == 2 {
		return province
	}
	if region, ok := provinceRegion[province]; ok {
		return region
	}
	return CountryRoot
}

// sensitivityLevel collapses the graded sensitivity of a record into high and
// low.
type sensitivityLevel struct{}

func (sensitivityLevel) Tag() Tag { return SensitivityLevel }

func (sensitivityLevel) Generalize(v any, level int) string {
	s := categoricalText(v)
	if s == "" {
		return Unknown
	}
	if ClampLevel(level) == 1 {
		return s
	}
	if s == "高" || s == "较高" {
		return HighSensitive
	}
	return LowSensitive
}

// genericString masks the trailing half of a value at level 2 and the whole
// value above.
type genericString struct{}

func (genericString) Tag() Tag { return GenericString }

func (genericString) Generalize(v any, level int) string {
	if v == nil {
		return Unknown
	}
	s := record.String(v)
	switch ClampLevel(level) {
	case 1:
		return s
	case 2:
		return MaskTail(s)
	}
	return Suppressed
}

// MaskTail keeps the first half of the runes of s and replaces the rest with
// Suppressed. An empty string stays empty.
func MaskTail(s string) string {
	runes := []rune(s)
	keep := len(runes) / 2
	return string(runes[:keep]) + strings.Repeat(Suppressed, len(runes)-keep)
}
