package main

import (
	"fmt"
	"maps"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/delique1984/Experience5-privacy/budget"
	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/config"
	"github.com/delique1984/Experience5-privacy/dpquery"
	"github.com/delique1984/Experience5-privacy/kanon"
	"github.com/delique1984/Experience5-privacy/masking"
)

func newKAnonCmd(g *globalFlags) *cobra.Command {
	var (
		qis, sensitive []string
		levels         map[string]int
		k, maxIter     int
	)
	cmd := &cobra.Command{
		Use:   "kanon",
		Short: "Generalize quasi-identifiers until the records are k-anonymous",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if k == 0 {
				k = cfg.K
			}
			if maxIter == 0 {
				maxIter = cfg.MaxIterations
			}
			a, err := kanon.New(k)
			if err != nil {
				return err
			}
			rs, err := g.loadRecords(ctx, cfg)
			if err != nil {
				return err
			}
			if err := checks.CheckSufficientData(len(rs), k); err != nil {
				return err
			}
			tags, err := cfg.FieldTags()
			if err != nil {
				return err
			}
			hierarchies, err := cfg.BuildHierarchies()
			if err != nil {
				return err
			}
			res, err := a.Anonymize(ctx, rs, kanon.Request{
				QuasiIdentifiers:    qis,
				SensitiveAttributes: sensitive,
				Levels:              levels,
				Tags:                tags,
				Hierarchies:         hierarchies,
				MaxIterations:       maxIter,
			})
			if err != nil {
				return err
			}
			risks := make(map[string]kanon.RiskReport, len(sensitive))
			for _, s := range sensitive {
				risks[s] = kanon.EvaluateRisk(res.Classes, s)
			}
			return g.write(cmd.OutOrStdout(), map[string]any{
				"anonymized_data":    res.Records,
				"statistics":         res.Stats,
				"information_loss":   res.Loss,
				"privacy_assessment": kanon.Assess(res.Stats),
				"risk":               risks,
			})
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVar(&qis, "qi", nil, "Quasi-identifier fields, in grouping order.")
	fs.StringSliceVar(&sensitive, "sensitive", nil, "Sensitive fields to evaluate the disclosure risk of.")
	fs.StringToIntVar(&levels, "levels", nil, "Initial generalization level per field, e.g. revenue_2023=2.")
	fs.IntVar(&k, "k", 0, "Anonymity parameter. The configured k when 0.")
	fs.IntVar(&maxIter, "max_iterations", 0, "Maximum validation rounds. The configured value when 0.")
	cmd.MarkFlagRequired("qi")
	return cmd
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	var (
		qis []string
		k   int
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether records are already k-anonymous",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if k == 0 {
				k = cfg.K
			}
			if err := checks.CheckK(k, kanon.MinK, kanon.MaxK); err != nil {
				return err
			}
			rs, err := g.loadRecords(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return g.write(cmd.OutOrStdout(), kanon.Validate(kanon.BuildClasses(rs, qis), k))
		},
	}
	cmd.Flags().StringSliceVar(&qis, "qi", nil, "Quasi-identifier fields.")
	cmd.Flags().IntVar(&k, "k", 0, "Anonymity parameter. The configured k when 0.")
	cmd.MarkFlagRequired("qi")
	return cmd
}

func newPrivatizeCmd(g *globalFlags) *cobra.Command {
	var (
		p      privacyFlags
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "privatize",
		Short: "Add noise to every numeric cell of the given fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			opts, err := p.options(cfg)
			if err != nil {
				return err
			}
			e, err := dpquery.New(opts, g.noiseSource())
			if err != nil {
				return err
			}
			rs, err := g.loadRecords(ctx, cfg)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				fields = sortedKeys(opts.EffectiveBounds())
			}
			res, err := e.Privatize(ctx, rs, fields)
			if err != nil {
				return err
			}
			return g.write(cmd.OutOrStdout(), map[string]any{
				"result":     res,
				"assessment": dpquery.Assess(res),
			})
		},
	}
	addPrivacyFlags(cmd.Flags(), &p)
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Numeric fields to privatize. All bounded fields when empty.")
	return cmd
}

func newQueryCmd(g *globalFlags) *cobra.Command {
	var (
		p         privacyFlags
		queryType string
		field     string
		where     map[string]string
		ranks     []float64
		bins      []string
		prior     int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer a count, sum, average, histogram or percentile query with differential privacy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			opts, err := p.options(cfg)
			if err != nil {
				return err
			}
			e, err := dpquery.New(opts, g.noiseSource())
			if err != nil {
				return err
			}
			acct, err := budget.NewAccountant(cfg.BudgetCeiling)
			if err != nil {
				return err
			}
			rs, err := g.loadRecords(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if queryType != dpquery.CountQuery && field == "" {
				return checks.NewInputError("query", "--field is required for %s queries", queryType)
			}
			if prior < 0 {
				return checks.NewInputError("query", "--prior_releases must be non-negative, got %d", prior)
			}
			filter := parseFilter(where)

			var (
				res any
				d   *dpquery.Diagnostics
			)
			switch queryType {
			case dpquery.CountQuery:
				var r *dpquery.CountResult
				r, err = e.Count(rs, filter)
				if res = r; r != nil {
					d = &r.Diagnostics
				}
			case dpquery.SumQuery:
				var r *dpquery.Result
				r, err = e.Sum(rs, field, filter)
				if res = r; r != nil {
					d = &r.Diagnostics
				}
			case dpquery.AverageQuery:
				var r *dpquery.Result
				r, err = e.Average(rs, field, filter)
				if res = r; r != nil {
					d = &r.Diagnostics
				}
			case dpquery.HistogramQuery:
				var bs []any
				for _, b := range bins {
					bs = append(bs, b)
				}
				var r *dpquery.HistogramResult
				r, err = e.Histogram(rs, field, bs, filter)
				if res = r; r != nil {
					d = &r.Diagnostics
				}
			case dpquery.PercentileQuery:
				var r *dpquery.PercentileResult
				r, err = e.Percentile(rs, field, ranks, filter)
				if res = r; r != nil {
					d = &r.Diagnostics
				}
			default:
				return checks.NewInputError("query", "unknown query type %q", queryType)
			}
			var warn *checks.ComputationWarning
			switch {
			case asWarning(err, &warn):
				log.Warningf("query: %v", warn)
			case err != nil:
				return err
			}
			releases := prior
			if d != nil {
				releases += d.Releases
			}
			// Linear composition: each release at ε is one charge.
			for i := 0; i < releases; i++ {
				if err := acct.Spend(opts.Epsilon()); err != nil {
					return err
				}
			}
			return g.write(cmd.OutOrStdout(), map[string]any{
				"result": res,
				"budget": acct.Report(),
			})
		},
	}
	addPrivacyFlags(cmd.Flags(), &p)
	fs := cmd.Flags()
	fs.StringVar(&queryType, "type", dpquery.CountQuery, "Query type: count, sum, average, histogram or percentile.")
	fs.StringVar(&field, "field", "", "Field to aggregate.")
	fs.StringToStringVar(&where, "where", nil, "Equality filter, e.g. chain_stage=上游.")
	fs.Float64SliceVar(&ranks, "ranks", nil, "Percentile ranks. 25,50,75 when empty.")
	fs.StringSliceVar(&bins, "bins", nil, "Histogram bins. The distinct values of the field when empty.")
	fs.IntVar(&prior, "prior_releases", 0, "Noised answers already released from the same data at the same ε, counted into the budget report.")
	return cmd
}

func newBudgetCmd(g *globalFlags) *cobra.Command {
	var (
		epsilon float64
		queries int
	)
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Report the privacy budget consumed by a number of queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if epsilon == 0 {
				epsilon = cfg.Epsilon
			}
			if err := checks.CheckEpsilonRange(epsilon, config.MinEpsilon, config.MaxEpsilon); err != nil {
				return err
			}
			r, err := budget.Evaluate(epsilon, queries, cfg.BudgetCeiling)
			if err != nil {
				return err
			}
			return g.write(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0, "ε per query. The configured ε when 0.")
	cmd.Flags().IntVar(&queries, "queries", 1, "Number of queries.")
	return cmd
}

func newMaskCmd(g *globalFlags) *cobra.Command {
	var (
		salt  string
		rules map[string]string
	)
	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Mask company IDs, names and client lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			rs, err := g.loadRecords(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rr := maps.Clone(masking.DefaultRules)
			if len(rules) > 0 {
				rr = make(map[string]masking.Rule, len(rules))
				for f, name := range rules {
					r, err := masking.ParseRule(name)
					if err != nil {
						return fmt.Errorf("rule of %q: %w", f, err)
					}
					rr[f] = r
				}
			}
			return g.write(cmd.OutOrStdout(), masking.New(salt).MaskBatch(rs, rr))
		},
	}
	cmd.Flags().StringVar(&salt, "salt", "", "Salt of hashed IDs.")
	cmd.Flags().StringToStringVar(&rules, "rule", nil, "Masking rule per field: hash_id, company_name or client_list. 企业ID, 企业名称 and 核心客户 when empty.")
	return cmd
}
