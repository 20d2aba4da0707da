package noise

import (
	"math"

	dpnoise "github.com/google/differential-privacy/go/v3/noise"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/rand"
)

type laplace struct{}

// Laplace returns a Noise instance that adds zero-centered Laplace noise with
// scale b = sensitivity / ε. δ is ignored.
func Laplace() Noise {
	return laplace{}
}

// AddNoise adds Laplace noise to x.
func (laplace) AddNoise(x, sensitivity, epsilon, _ float64, src rand.Source) (float64, error) {
	b, err := laplace{}.Scale(sensitivity, epsilon, 0)
	if err != nil {
		return 0, err
	}
	return x + sampleLaplace(b, src), nil
}

// Scale returns b = sensitivity / ε.
func (laplace) Scale(sensitivity, epsilon, _ float64) (float64, error) {
	if err := checkArgsLaplace(sensitivity, epsilon); err != nil {
		return 0, err
	}
	return sensitivity / epsilon, nil
}

// ComputeConfidenceInterval computes a confidence interval for the Laplace
// mechanism with l0 sensitivity 1 and L∞ sensitivity equal to sensitivity.
func (laplace) ComputeConfidenceInterval(noisedX, sensitivity, epsilon, _, alpha float64) (ConfidenceInterval, error) {
	if err := checkArgsLaplace(sensitivity, epsilon); err != nil {
		return ConfidenceInterval{}, err
	}
	ci, err := dpnoise.Laplace().ComputeConfidenceIntervalFloat64(noisedX, 1, sensitivity, epsilon, 0, alpha)
	if err != nil {
		return ConfidenceInterval{}, err
	}
	return ConfidenceInterval{LowerBound: ci.LowerBound, UpperBound: ci.UpperBound}, nil
}

func (laplace) Kind() Kind {
	return LaplaceNoise
}

func (laplace) String() string {
	return "Laplace Noise"
}

func checkArgsLaplace(sensitivity, epsilon float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	return checks.CheckEpsilonStrict(epsilon)
}

// sampleLaplace draws from a zero-centered Laplace distribution of scale b as
// an exponential magnitude with a uniformly random sign.
func sampleLaplace(b float64, src rand.Source) float64 {
	return -b * rand.Sign(src) * math.Log(rand.Uniform(src))
}
