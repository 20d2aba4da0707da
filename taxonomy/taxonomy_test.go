package taxonomy

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/delique1984/Experience5-privacy/checks"
)

func TestGeneralizeNumeric(t *testing.T) {
	for _, tc := range []struct {
		value any
		tag   Tag
		level int
		want  string
	}{
		{0.5, Revenue, 1, "0-1亿"},
		{7, Revenue, 1, "5-10亿"},
		{"73.2", Revenue, 1, "50-100亿"},
		{820.0, Revenue, 1, "500亿以上"},
		{7, Revenue, 2, "0-10亿"},
		{73.2, Revenue, 2, "50-100亿"},
		{73.2, Revenue, 3, "50-100亿"},
		{7, Revenue, 3, "0-50亿"},
		{100, Revenue, 3, "100亿以上"},
		{12.5, MarketShare, 1, "10-20%"},
		{12.5, MarketShare, 2, "5-20%"},
		{12.5, MarketShare, 3, "0-20%"},
		{50, MarketShare, 1, "50%以上"},
		{7.5, RDRatio, 1, "5-10%"},
		{7.5, RDRatio, 2, "0-10%"},
		{7.5, RDRatio, 3, Suppressed},
		{22, RDRatio, 2, "10%以上"},
		// Levels out of range are clamped.
		{7, Revenue, 0, "5-10亿"},
		{7, Revenue, 9, "0-50亿"},
		// Unusable input.
		{nil, Revenue, 1, Unknown},
		{"n/a", MarketShare, 2, Unknown},
		{-3, RDRatio, 1, Unknown},
		{math.NaN(), Revenue, 1, Unknown},
	} {
		if got := Generalize(tc.value, tc.tag, tc.level); got != tc.want {
			t.Errorf("Generalize(%v, %v, %d): got %q, want %q", tc.value, tc.tag, tc.level, got, tc.want)
		}
	}
}

func TestGeneralizeCategorical(t *testing.T) {
	for _, tc := range []struct {
		value any
		tag   Tag
		level int
		want  string
	}{
		{"上游-原材料", ChainStage, 1, "上游-原材料"},
		{"上游-原材料", ChainStage, 2, "上游"},
		{"中游-封装", ChainStage, 2, "中游"},
		{"下游整车", ChainStage, 2, "下游"},
		{"研发外包", ChainStage, 2, OtherChainStage},
		{"研发外包", ChainStage, 3, ChainRoot},
		{"", ChainStage, 1, Unknown},
		{" 长沙 ", Headquarters, 1, "长沙"},
		{"长沙", Headquarters, 2, "湖南省"},
		{"长沙", Headquarters, 3, "华中"},
		{"深圳", Headquarters, 3, "华南"},
		{"乌鲁木齐", Headquarters, 3, "西北"},
		{"台北", Headquarters, 2, OtherRegion},
		{"台北", Headquarters, 3, OtherRegion},
		{nil, Headquarters, 2, Unknown},
		{"高", SensitivityLevel, 1, "高"},
		{"较高", SensitivityLevel, 2, HighSensitive},
		{"中", SensitivityLevel, 2, LowSensitive},
		{"低", SensitivityLevel, 3, LowSensitive},
		{"", SensitivityLevel, 2, Unknown},
	} {
		if got := Generalize(tc.value, tc.tag, tc.level); got != tc.want {
			t.Errorf("Generalize(%v, %v, %d): got %q, want %q", tc.value, tc.tag, tc.level, got, tc.want)
		}
	}
}

func TestGeneralizeGenericString(t *testing.T) {
	for _, tc := range []struct {
		value any
		level int
		want  string
	}{
		{"ABC123", 1, "ABC123"},
		{"ABC123", 2, "ABC***"},
		{"宁德时代", 2, "宁德**"},
		{"ABCDE", 2, "AB***"},
		{"X", 2, "*"},
		{"ABC123", 3, Suppressed},
		{12.5, 1, "12.5"},
		{12345, 2, "12***"},
		{nil, 1, Unknown},
	} {
		if got := Generalize(tc.value, GenericString, tc.level); got != tc.want {
			t.Errorf("Generalize(%v, GenericString, %d): got %q, want %q", tc.value, tc.level, got, tc.want)
		}
	}
}

// Each numeric bin at level L+1 must contain the bin of the same value at
// level L.
func TestNumericGeneralizationIsMonotonic(t *testing.T) {
	for _, tag := range []Tag{Revenue, MarketShare, RDRatio} {
		for x := 0.0; x <= 1200; x += 0.25 {
			for level := MinLevel; level < MaxLevel; level++ {
				lo, hi, ok := Interval(x, tag, level)
				if !ok {
					t.Fatalf("Interval(%f, %v, %d): got !ok", x, tag, level)
				}
				if x < lo || x >= hi {
					t.Errorf("Interval(%f, %v, %d) = [%f, %f) does not contain the value", x, tag, level, lo, hi)
				}
				clo, chi, _ := Interval(x, tag, level+1)
				if clo > lo || chi < hi {
					t.Errorf("%v: level %d bin [%f, %f) of %f is not within level %d bin [%f, %f)", tag, level, lo, hi, x, level+1, clo, chi)
				}
			}
		}
	}
}

func TestCategoricalGeneralizationIsMonotonic(t *testing.T) {
	// Two values sharing a level L generalization must share their level L+1
	// generalization too.
	values := map[Tag][]string{
		ChainStage:       {"上游-原材料", "上游-设备", "上游企业", "中游-制造", "中游", "下游-服务", "其它", "研发"},
		Headquarters:     {"北京", "天津", "上海", "苏州", "南京", "深圳", "广州", "长沙", "成都", "台北", "香港"},
		SensitivityLevel: {"高", "较高", "中", "低", "未评级"},
		GenericString:    {"ABCD", "ABXY", "ABCDEF", "AB", "A"},
	}
	for tag, vs := range values {
		for level := MinLevel; level < MaxLevel; level++ {
			parent := make(map[string]string)
			for _, v := range vs {
				g := Generalize(v, tag, level)
				p := Generalize(v, tag, level+1)
				if prev, ok := parent[g]; ok && prev != p {
					t.Errorf("%v level %d: %q generalizes to both %q and %q at level %d", tag, level, g, prev, p, level+1)
				}
				parent[g] = p
			}
		}
	}
}

func TestGeneralizeIsDeterministic(t *testing.T) {
	for _, tag := range []Tag{Revenue, MarketShare, RDRatio, ChainStage, Headquarters, SensitivityLevel, GenericString} {
		for _, v := range []any{42.0, "长沙", "上游-设备", "高", nil} {
			for level := MinLevel; level <= MaxLevel; level++ {
				first := Generalize(v, tag, level)
				for i := 0; i < 5; i++ {
					if got := Generalize(v, tag, level); got != first {
						t.Fatalf("Generalize(%v, %v, %d): got %q, then %q", v, tag, level, first, got)
					}
				}
			}
		}
	}
}

func TestHierarchy(t *testing.T) {
	h, err := NewHierarchy("region", map[string][]string{
		"A":     {"East", "North"},
		"B":     {"East"},
		"20-30": {"20-40"},
	})
	if err != nil {
		t.Fatalf("NewHierarchy: got err %v", err)
	}
	for _, tc := range []struct {
		value any
		level int
		want  string
	}{
		{"A", 1, "A"},
		{"A", 2, "East"},
		{"A", 3, "North"},
		{"B", 3, "East"},
		{"20-30", 2, "20-40"},
		{"C", 2, Other},
		{"C", 1, "C"},
		{nil, 2, Unknown},
	} {
		if got := h.Generalize(tc.value, tc.level); got != tc.want {
			t.Errorf("Hierarchy.Generalize(%v, %d): got %q, want %q", tc.value, tc.level, got, tc.want)
		}
	}
	if h.Tag() != Custom || !h.Contains("B") || h.Contains("C") {
		t.Errorf("Hierarchy: got tag %v, Contains(B) %t, Contains(C) %t", h.Tag(), h.Contains("B"), h.Contains("C"))
	}

	if _, err := NewHierarchy("bad", map[string][]string{"A": nil}); err == nil {
		t.Errorf("NewHierarchy with a root-less value: got nil error, want error")
	}
}

func TestParseFields(t *testing.T) {
	region, _ := NewHierarchy("region", map[string][]string{"A": {"East"}})
	specs, err := ParseFields(
		[]string{"revenue_2023", "headquarters", "region", "company_code"},
		map[string]int{"headquarters": 2, "company_code": 7},
		map[string]Tag{"company_code": GenericString},
		map[string]*Hierarchy{"region": region},
	)
	if err != nil {
		t.Fatalf("ParseFields: got err %v", err)
	}
	type summary struct {
		Name  string
		Tag   Tag
		Level int
	}
	var got []summary
	for _, s := range specs {
		got = append(got, summary{s.Name, s.Tag(), s.Level})
	}
	want := []summary{
		{"revenue_2023", Revenue, 1},
		{"headquarters", Headquarters, 2},
		{"region", Custom, 1},
		{"company_code", GenericString, MaxLevel},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFields: diff (-want +got):\n%s", diff)
	}

	for _, tc := range []struct {
		desc   string
		fields []string
		levels map[string]int
	}{
		{"empty field name", []string{""}, nil},
		{"duplicate field", []string{"a", "a"}, nil},
		{"level 0", []string{"a"}, map[string]int{"a": 0}},
	} {
		_, err := ParseFields(tc.fields, tc.levels, nil, nil)
		if err == nil {
			t.Errorf("ParseFields: when %s got nil error, want error", tc.desc)
		}
	}
	_, err = ParseFields([]string{"a"}, map[string]int{"a": -1}, nil, nil)
	var verr *checks.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("ParseFields with a negative level: got %v, want *checks.ValidationError", err)
	}
}

func TestParseTag(t *testing.T) {
	for tag := range tagNames {
		got, err := ParseTag(tag.String())
		if err != nil || got != tag {
			t.Errorf("ParseTag(%q): got %v, %v, want %v", tag.String(), got, err, tag)
		}
	}
	if _, err := ParseTag("postcode"); err == nil {
		t.Errorf("ParseTag(postcode): got nil error, want error")
	}
}

func TestTagForField(t *testing.T) {
	if got := TagForField("domestic_market_share"); got != MarketShare {
		t.Errorf("TagForField(domestic_market_share): got %v, want %v", got, MarketShare)
	}
	if got := TagForField("patent_title"); got != GenericString {
		t.Errorf("TagForField(patent_title): got %v, want %v", got, GenericString)
	}
}
