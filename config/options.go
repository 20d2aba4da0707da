package config

import (
	"fmt"
	"maps"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/noise"
)

// Overrides are the per-call parameters of a differentially private
// operation. Zero values keep the configured setting.
type Overrides struct {
	Epsilon   float64
	Delta     float64
	Mechanism string
	// Bounds replaces the bounds of the listed fields. Unless Sensitivities
	// says otherwise, the sensitivity of such a field becomes the width of its
	// new bounds.
	Bounds map[string]noise.Bounds
	// Sensitivities are explicit per-call sensitivities. They take precedence
	// over every other source.
	Sensitivities map[string]float64
}

// Options is an immutable snapshot of the configuration for one call. It
// never shares its maps with the Config it was made from, so per-call bounds
// do not leak into later calls.
type Options struct {
	mechanism noise.Kind
	epsilon   float64
	delta     float64

	bounds   map[string]noise.Bounds
	table    map[string]float64
	explicit map[string]float64
}

// Options merges ov over c. The merged ε must lie in [MinEpsilon, MaxEpsilon].
func (c *Config) Options(ov Overrides) (*Options, error) {
	o := &Options{
		epsilon:  c.Epsilon,
		delta:    c.Delta,
		bounds:   maps.Clone(c.Bounds),
		table:    maps.Clone(c.Sensitivities),
		explicit: maps.Clone(ov.Sensitivities),
	}
	if o.bounds == nil {
		o.bounds = make(map[string]noise.Bounds)
	}
	if o.table == nil {
		o.table = make(map[string]float64)
	}
	if ov.Epsilon != 0 {
		o.epsilon = ov.Epsilon
	}
	if ov.Delta != 0 {
		o.delta = ov.Delta
	}
	mechanism := c.Mechanism
	if ov.Mechanism != "" {
		mechanism = ov.Mechanism
	}

	var err error
	if o.mechanism, err = noise.ParseKind(mechanism); err != nil {
		return nil, err
	}
	if err := checks.CheckEpsilonRange(o.epsilon, MinEpsilon, MaxEpsilon); err != nil {
		return nil, fmt.Errorf("Options: %w", err)
	}
	if o.mechanism == noise.GaussianNoise {
		if err := checks.CheckDeltaStrict(o.delta); err != nil {
			return nil, fmt.Errorf("Options: %w", err)
		}
	}
	for f, b := range ov.Bounds {
		if err := b.Check(); err != nil {
			return nil, fmt.Errorf("Options: bounds of %q: %w", f, err)
		}
		o.bounds[f] = b
		if r := b.Range(); r > 0 {
			o.table[f] = r
		}
	}
	for f, s := range o.explicit {
		if err := checks.CheckSensitivity(s); err != nil {
			return nil, fmt.Errorf("Options: sensitivity of %q: %w", f, err)
		}
	}
	return o, nil
}

// Mechanism returns the noise distribution to use.
func (o *Options) Mechanism() noise.Kind { return o.mechanism }

// Epsilon returns ε per query.
func (o *Options) Epsilon() float64 { return o.epsilon }

// Delta returns δ.
func (o *Options) Delta() float64 { return o.delta }

// Bounds returns the declared bounds of field.
func (o *Options) Bounds(field string) (noise.Bounds, bool) {
	b, ok := o.bounds[field]
	return b, ok
}

// EffectiveBounds returns a copy of all the bounds in effect.
func (o *Options) EffectiveBounds() map[string]noise.Bounds {
	return maps.Clone(o.bounds)
}

// Sensitivity resolves the sensitivity of field. observed holds the field's
// values in the data being queried and is only used when neither an explicit
// nor a configured sensitivity exists.
func (o *Options) Sensitivity(field string, observed []float64) (float64, noise.SensitivitySource) {
	return noise.ResolveSensitivity(field, o.explicit, o.table, observed)
}
