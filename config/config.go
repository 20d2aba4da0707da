// Package config holds the engine configuration: its defaults, loading from
// YAML or JSON files, environment overrides and validation.
package config

import (
	"errors"
	"fmt"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/kanon"
	"github.com/delique1984/Experience5-privacy/noise"
	"github.com/delique1984/Experience5-privacy/taxonomy"
)

// Valid range of ε per query.
const (
	MinEpsilon = 0.1
	MaxEpsilon = 10.0
)

// Defaults.
const (
	DefaultK             = 5
	DefaultEpsilon       = 1.0
	DefaultDelta         = 1e-5
	DefaultMechanism     = "laplace"
	DefaultBudgetCeiling = 10.0
)

// Config is the engine configuration.
type Config struct {
	// K is the anonymity parameter of the k-anonymity path.
	K             int `yaml:"k" json:"k"`
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`

	// Epsilon is the privacy budget of each differentially private query.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
	// Delta is used by the Gaussian mechanism only.
	Delta     float64 `yaml:"delta" json:"delta"`
	Mechanism string  `yaml:"mechanism" json:"mechanism"`
	// BudgetCeiling is the total ε the accountant measures consumption against.
	BudgetCeiling float64 `yaml:"budget_ceiling" json:"budget_ceiling"`

	// Bounds and Sensitivities are keyed by numeric field name.
	Bounds        map[string]noise.Bounds `yaml:"bounds" json:"bounds"`
	Sensitivities map[string]float64      `yaml:"sensitivities" json:"sensitivities"`

	// Tags overrides the semantic type inferred from a field's name, by tag
	// name ("revenue", "headquarters", ...).
	Tags map[string]string `yaml:"tags" json:"tags"`
	// Hierarchies holds custom generalization trees: field -> value ->
	// ancestors, nearest first.
	Hierarchies map[string]map[string][]string `yaml:"hierarchies" json:"hierarchies"`

	Database DatabaseConfig `yaml:"database" json:"database"`
}

// DatabaseConfig locates the records to anonymize.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn" json:"dsn"`
	Table string `yaml:"table" json:"table"`
	Limit int    `yaml:"limit" json:"limit"`
}

// Default returns the built-in configuration for the enterprise records.
func Default() *Config {
	return &Config{
		K:             DefaultK,
		MaxIterations: kanon.DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
		Delta:         DefaultDelta,
		Mechanism:     DefaultMechanism,
		BudgetCeiling: DefaultBudgetCeiling,
		Bounds: map[string]noise.Bounds{
			"revenue_2023":          {Lower: 0, Upper: 1000},
			"domestic_market_share": {Lower: 0, Upper: 100},
			"r_and_d_ratio":         {Lower: 0, Upper: 30},
		},
		Sensitivities: map[string]float64{
			"revenue_2023":          1000,
			"domestic_market_share": 100,
			"r_and_d_ratio":         30,
		},
		Database: DatabaseConfig{Table: "nrse_enterprises", Limit: 1000},
	}
}

// Validate checks every parameter and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	if err := checks.CheckK(c.K, kanon.MinK, kanon.MaxK); err != nil {
		errs = append(errs, err)
	}
	if err := checks.CheckMaxIterations(c.MaxIterations); err != nil {
		errs = append(errs, err)
	}
	if err := checks.CheckEpsilonRange(c.Epsilon, MinEpsilon, MaxEpsilon); err != nil {
		errs = append(errs, err)
	}
	if err := checks.CheckDeltaStrict(c.Delta); err != nil {
		errs = append(errs, err)
	}
	if _, err := noise.ParseKind(c.Mechanism); err != nil {
		errs = append(errs, err)
	}
	if c.BudgetCeiling <= 0 {
		errs = append(errs, &checks.ValidationError{Param: "BudgetCeiling", Msg: fmt.Sprintf("is %g, must be strictly positive", c.BudgetCeiling)})
	}
	for f, b := range c.Bounds {
		if err := b.Check(); err != nil {
			errs = append(errs, fmt.Errorf("bounds of %q: %w", f, err))
		}
	}
	for f, s := range c.Sensitivities {
		if err := checks.CheckSensitivity(s); err != nil {
			errs = append(errs, fmt.Errorf("sensitivity of %q: %w", f, err))
		}
	}
	if _, err := c.FieldTags(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BuildHierarchies(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FieldTags parses Tags.
func (c *Config) FieldTags() (map[string]taxonomy.Tag, error) {
	tags := make(map[string]taxonomy.Tag, len(c.Tags))
	for f, name := range c.Tags {
		t, err := taxonomy.ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("tag of %q: %w", f, err)
		}
		tags[f] = t
	}
	return tags, nil
}

// BuildHierarchies constructs the custom generalization trees.
func (c *Config) BuildHierarchies() (map[string]*taxonomy.Hierarchy, error) {
	hs := make(map[string]*taxonomy.Hierarchy, len(c.Hierarchies))
	for f, parents := range c.Hierarchies {
		h, err := taxonomy.NewHierarchy(f, parents)
		if err != nil {
			return nil, err
		}
		hs[f] = h
	}
	return hs, nil
}
