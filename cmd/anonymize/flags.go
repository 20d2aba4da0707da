package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/record"
)

// privacyFlags are the per-call overrides of the differential privacy
// commands.
type privacyFlags struct {
	epsilon       float64
	delta         float64
	mechanism     string
	bounds        map[string]string
	sensitivities map[string]string
}

func addPrivacyFlags(fs *pflag.FlagSet, p *privacyFlags) {
	fs.Float64Var(&p.epsilon, "epsilon", 0, "Privacy budget per query. The configured ε when 0.")
	fs.Float64Var(&p.delta, "delta", 0, "δ of the Gaussian mechanism. The configured δ when 0.")
	fs.StringVar(&p.mechanism, "mechanism", "", "Noise mechanism: laplace or gaussian.")
	fs.StringToStringVar(&p.bounds, "bounds", nil, "Per-call field bounds, e.g. revenue_2023=0:500.")
	fs.StringToStringVar(&p.sensitivities, "sensitivity", nil, "Per-call field sensitivities, e.g. revenue_2023=100.")
}

func (p *privacyFlags) options(cfg *config.Config) (*config.Options, error) {
	bounds, err := parseBounds(p.bounds)
	if err != nil {
		return nil, err
	}
	sens, err := parseFloats(p.sensitivities)
	if err != nil {
		return nil, err
	}
	return cfg.Options(config.Overrides{
		Epsilon:       p.epsilon,
		Delta:         p.delta,
		Mechanism:     p.mechanism,
		Bounds:        bounds,
		Sensitivities: sens,
	})
}

// parseBounds parses field=lo:hi pairs.
func parseBounds(m map[string]string) (map[string]noise.Bounds, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]noise.Bounds, len(m))
	for f, s := range m {
		lo, hi, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("bounds of %q: want lo:hi, got %q", f, s)
		}
		var b noise.Bounds
		var err error
		if b.Lower, err = strconv.ParseFloat(strings.TrimSpace(lo), 64); err != nil {
			return nil, fmt.Errorf("bounds of %q: %w", f, err)
		}
		if b.Upper, err = strconv.ParseFloat(strings.TrimSpace(hi), 64); err != nil {
			return nil, fmt.Errorf("bounds of %q: %w", f, err)
		}
		out[f] = b
	}
	return out, nil
}

func parseFloats(m map[string]string) (map[string]float64, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(m))
	for f, s := range m {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, err)
		}
		out[f] = v
	}
	return out, nil
}

// parseFilter turns field=value pairs into a filter. A value matches a string
// cell holding the same text, or a numeric cell of the same value.
func parseFilter(m map[string]string) record.Filter {
	if len(m) == 0 {
		return nil
	}
	f := make(record.Filter, len(m))
	for k, v := range m {
		f[k] = record.Text(v)
	}
	return f
}
