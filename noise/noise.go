// Package noise contains the mechanisms that add calibrated random noise to
// values and statistics to make them differentially private.
package noise

import (
	"strings"

	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/rand"
)

// Kind is an enum type. Its values are the supported noise distributions.
type Kind int

// Noise distributions used to achieve differential privacy.
const (
	LaplaceNoise Kind = iota
	GaussianNoise
	Unrecognised
)

// ParseKind converts a mechanism name ("laplace" or "gaussian", case
// insensitive) into a Kind. Unknown names return a *checks.InputError.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "laplace":
		return LaplaceNoise, nil
	case "gaussian":
		return GaussianNoise, nil
	}
	return Unrecognised, checks.NewInputError("ParseKind", "unknown noise mechanism %q, must be 'laplace' or 'gaussian'", name)
}

func (k Kind) String() string {
	switch k {
	case LaplaceNoise:
		return "laplace"
	case GaussianNoise:
		return "gaussian"
	}
	return "unrecognised"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ToNoise converts a Kind into a Noise instance.
func ToNoise(k Kind) Noise {
	switch k {
	case GaussianNoise:
		return Gaussian()
	case LaplaceNoise:
		return Laplace()
	}
	log.Warningf("ToNoise: unknown kind (%v) specified, returning nil", k)
	return nil
}

// ConfidenceInterval holds lower and upper bounds as float64 for the confidence interval.
type ConfidenceInterval struct {
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Noise is an interface for primitives that add noise to data to make it differentially private.
type Noise interface {
	// AddNoise adds noise to x so that the output is ε-differentially private
	// (or (ε,δ) for Gaussian noise) for a statistic whose value a single record
	// changes by at most sensitivity. Draws come from src only.
	AddNoise(x, sensitivity, epsilon, delta float64, src rand.Source) (float64, error)

	// Scale returns the spread parameter of the noise distribution: the
	// Laplace scale b or the Gaussian standard deviation σ.
	Scale(sensitivity, epsilon, delta float64) (float64, error)

	// ComputeConfidenceInterval computes an interval that contains the raw
	// value from which noisedX was computed with probability 1 - alpha.
	ComputeConfidenceInterval(noisedX, sensitivity, epsilon, delta, alpha float64) (ConfidenceInterval, error)

	// Kind returns the distribution implemented by the Noise.
	Kind() Kind
}
