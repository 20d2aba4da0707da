package checks

import (
	"errors"
	"math"
	"testing"
)

func TestCheckK(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		k       int
		wantErr bool
	}{
		{"k below minimum", 1, true},
		{"k at minimum", 2, false},
		{"k in range", 5, false},
		{"k at maximum", 100, false},
		{"k above maximum", 101, true},
		{"negative k", -3, true},
	} {
		err := CheckK(tc.k, 2, 100)
		if (err != nil) != tc.wantErr {
			t.Errorf("CheckK: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
		var verr *ValidationError
		if err != nil && !errors.As(err, &verr) {
			t.Errorf("CheckK: when %s got error of type %T, want *ValidationError", tc.desc, err)
		}
	}
}

func TestCheckSufficientData(t *testing.T) {
	err := CheckSufficientData(3, 5)
	var derr *DataInsufficiencyError
	if !errors.As(err, &derr) {
		t.Fatalf("CheckSufficientData(3, 5): got %v, want *DataInsufficiencyError", err)
	}
	if derr.Need != 5 || derr.Got != 3 {
		t.Errorf("CheckSufficientData(3, 5): got need=%d got=%d, want need=5 got=3", derr.Need, derr.Got)
	}
	if err := CheckSufficientData(5, 5); err != nil {
		t.Errorf("CheckSufficientData(5, 5): got %v, want nil", err)
	}
}

func TestCheckEpsilonStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"negative epsilon",
			-2,
			true},
		{"zero epsilon",
			0,
			true},
		{"epsilon is NaN",
			math.NaN(),
			true},
		{"epsilon is negative infinity",
			math.Inf(-1),
			true},
		{"epsilon is positive infinity",
			math.Inf(1),
			true},
		{"positive epsilon",
			50,
			false},
	} {
		if err := CheckEpsilonStrict(tc.epsilon); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilonStrict: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckEpsilonRange(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"epsilon below range", 0.05, true},
		{"epsilon at lower bound", 0.1, false},
		{"epsilon in range", 1.0, false},
		{"epsilon at upper bound", 10.0, false},
		{"epsilon above range", 10.5, true},
		{"epsilon is NaN", math.NaN(), true},
	} {
		if err := CheckEpsilonRange(tc.epsilon, 0.1, 10.0); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilonRange: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckDeltaStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		delta   float64
		wantErr bool
	}{
		{"negative delta",
			-2,
			true},
		{"zero delta",
			0,
			true},
		{"delta is NaN",
			math.NaN(),
			true},
		{"delta is 1",
			1,
			true},
		{"delta above 1",
			1.5,
			true},
		{"small delta",
			1e-5,
			false},
	} {
		if err := CheckDeltaStrict(tc.delta); (err != nil) != tc.wantErr {
			t.Errorf("CheckDeltaStrict: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckSensitivity(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		sensitivity float64
		wantErr     bool
	}{
		{"zero sensitivity", 0, true},
		{"negative sensitivity", -1, true},
		{"infinite sensitivity", math.Inf(1), true},
		{"NaN sensitivity", math.NaN(), true},
		{"positive sensitivity", 1000, false},
	} {
		if err := CheckSensitivity(tc.sensitivity); (err != nil) != tc.wantErr {
			t.Errorf("CheckSensitivity: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckBoundsFloat64(t *testing.T) {
	for _, tc := range []struct {
		desc         string
		lower, upper float64
		wantErr      bool
	}{
		{"lower > upper", 10, 5, true},
		{"lower == upper", 5, 5, false},
		{"lower < upper", 0, 1000, false},
		{"lower is NaN", math.NaN(), 5, true},
		{"upper is NaN", 0, math.NaN(), true},
		{"lower is infinite", math.Inf(-1), 5, true},
		{"upper is infinite", 0, math.Inf(1), true},
	} {
		if err := CheckBoundsFloat64(tc.lower, tc.upper); (err != nil) != tc.wantErr {
			t.Errorf("CheckBoundsFloat64: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckGeneralizationLevel(t *testing.T) {
	if err := CheckGeneralizationLevel("revenue_2023", 0); err == nil {
		t.Errorf("CheckGeneralizationLevel(0): got nil, want error")
	}
	if err := CheckGeneralizationLevel("revenue_2023", 3); err != nil {
		t.Errorf("CheckGeneralizationLevel(3): got %v, want nil", err)
	}
}

func TestCheckPercentile(t *testing.T) {
	for _, tc := range []struct {
		p       float64
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{50, false},
		{100, false},
		{100.5, true},
		{math.NaN(), true},
	} {
		if err := CheckPercentile(tc.p); (err != nil) != tc.wantErr {
			t.Errorf("CheckPercentile(%f): got err %v, want %t", tc.p, err, tc.wantErr)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{NewInputError("Anonymize", "no data provided"), "Anonymize: invalid input: no data provided"},
		{&DataInsufficiencyError{Need: 5, Got: 3}, "insufficient data: need at least 5 records, got 3"},
		{&ComputationWarning{Field: "revenue_2023", Msg: "all values are null"}, `no valid data for field "revenue_2023": all values are null`},
	} {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error(): got %q, want %q", got, tc.want)
		}
	}
}
