package noise

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/rand"
)

type gaussian struct{}

// Gaussian returns a Noise instance that adds zero-centered Gaussian noise
// with standard deviation σ = sensitivity · √(2 ln(1.25/δ)) / ε.
func Gaussian() Noise {
	return gaussian{}
}

// AddNoise adds Gaussian noise to x.
func (gaussian) AddNoise(x, sensitivity, epsilon, delta float64, src rand.Source) (float64, error) {
	sigma, err := gaussian{}.Scale(sensitivity, epsilon, delta)
	if err != nil {
		return 0, err
	}
	return x + sigma*src.NormFloat64(), nil
}

// Scale returns the standard deviation σ of the classical Gaussian mechanism.
func (gaussian) Scale(sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsGaussian(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	return sigmaForGaussian(sensitivity, epsilon, delta), nil
}

// ComputeConfidenceInterval returns noisedX ± z·σ where z is the (1 - alpha/2)
// quantile of the standard normal distribution.
func (gaussian) ComputeConfidenceInterval(noisedX, sensitivity, epsilon, delta, alpha float64) (ConfidenceInterval, error) {
	if err := checkArgsGaussian(sensitivity, epsilon, delta); err != nil {
		return ConfidenceInterval{}, err
	}
	if alpha <= 0 || alpha >= 1 || math.IsNaN(alpha) {
		return ConfidenceInterval{}, &checks.ValidationError{Param: "Alpha", Msg: "must be within (0, 1)"}
	}
	// Computed from the alpha/2 quantile, which is more accurately representable
	// than 1 - alpha/2 for small alpha.
	z := -distuv.UnitNormal.Quantile(alpha / 2)
	sigma := sigmaForGaussian(sensitivity, epsilon, delta)
	return ConfidenceInterval{LowerBound: noisedX - z*sigma, UpperBound: noisedX + z*sigma}, nil
}

func (gaussian) Kind() Kind {
	return GaussianNoise
}

func (gaussian) String() string {
	return "Gaussian Noise"
}

func checkArgsGaussian(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return err
	}
	return checks.CheckDeltaStrict(delta)
}

func sigmaForGaussian(sensitivity, epsilon, delta float64) float64 {
	return sensitivity * math.Sqrt(2*math.Log(1.25/delta)) / epsilon
}
