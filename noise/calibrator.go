package noise

import (
	"fmt"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/rand"
)

// Calibrator binds a Noise to one privacy budget and one random source, so
// that a sequence of draws within a single call share parameters but never a
// process-wide generator.
//
// Not thread-safe.
type Calibrator struct {
	noise   Noise
	epsilon float64
	delta   float64
	src     rand.Source
}

// CalibratorOptions contains the options necessary to initialize a Calibrator.
type CalibratorOptions struct {
	Kind    Kind        // Defaults to Laplace noise.
	Epsilon float64     // Privacy parameter ε. Required.
	Delta   float64     // Privacy parameter δ. Required with Gaussian noise, ignored with Laplace noise.
	Source  rand.Source // Random source. Defaults to a crypto-seeded source.
}

// NewCalibrator returns a Calibrator for opt.
func NewCalibrator(opt *CalibratorOptions) (*Calibrator, error) {
	if opt == nil {
		opt = &CalibratorOptions{}
	}
	n := ToNoise(opt.Kind)
	if n == nil {
		return nil, checks.NewInputError("NewCalibrator", "unknown noise kind %v", opt.Kind)
	}
	if err := checks.CheckEpsilonStrict(opt.Epsilon); err != nil {
		return nil, fmt.Errorf("NewCalibrator: %w", err)
	}
	if opt.Kind == GaussianNoise {
		if err := checks.CheckDeltaStrict(opt.Delta); err != nil {
			return nil, fmt.Errorf("NewCalibrator: %w", err)
		}
	}
	src := opt.Source
	if src == nil {
		src = rand.NewSecure()
	}
	return &Calibrator{noise: n, epsilon: opt.Epsilon, delta: opt.Delta, src: src}, nil
}

// Apply adds noise calibrated to sensitivity to x.
func (c *Calibrator) Apply(x, sensitivity float64) (float64, error) {
	return c.noise.AddNoise(x, sensitivity, c.epsilon, c.delta, c.src)
}

// Scale returns the spread of the noise added for sensitivity.
func (c *Calibrator) Scale(sensitivity float64) (float64, error) {
	return c.noise.Scale(sensitivity, c.epsilon, c.delta)
}

// ConfidenceInterval returns the 1 - alpha confidence interval of noisedX.
func (c *Calibrator) ConfidenceInterval(noisedX, sensitivity, alpha float64) (ConfidenceInterval, error) {
	return c.noise.ComputeConfidenceInterval(noisedX, sensitivity, c.epsilon, c.delta, alpha)
}

// Kind returns the mechanism of c.
func (c *Calibrator) Kind() Kind { return c.noise.Kind() }

// Epsilon returns the per-draw privacy budget of c.
func (c *Calibrator) Epsilon() float64 { return c.epsilon }

// Delta returns δ of c.
func (c *Calibrator) Delta() float64 { return c.delta }

// Source returns the random source of c.
func (c *Calibrator) Source() rand.Source { return c.src }
