package rules

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
	"github.com/agentic-research/patternmine/internal/featuremap"
	"github.com/agentic-research/patternmine/internal/highlander"
	"github.com/agentic-research/patternmine/internal/lattice"
	"github.com/agentic-research/patternmine/internal/solve"
)

// Options tunes one mining run.
type Options struct {
	featuremap.Options

	// Highlander drops solutions a uniquely solvable puzzle cannot rely on.
	Highlander bool
	// Verify re-checks every rule with the validator before emitting it.
	Verify bool
	// DisablePruner scans the whole population on every closure. Highlander
	// runs always go through the highlander pruner.
	DisablePruner       bool
	DisableImpliedMasks bool

	ReportEvery int
	Progress    func(lattice.Progress)
}

// DefaultOptions solves edges and sectors, without face colors.
func DefaultOptions() Options {
	return Options{
		Options:     featuremap.Options{SolveEdges: true, SolveSectors: true},
		ReportEvery: 10000,
	}
}

// Stats summarizes a mining run.
type Stats struct {
	Solutions    int
	Attributes   int
	Implications int
	Rules        int
	Contradicted int
	NoOps        int
	Rejected     int
	Elapsed      time.Duration
}

// Miner turns the solution population of a board into pattern rules.
type Miner struct {
	solver    solve.Solver
	validator *Validator
	log       logrus.FieldLogger
}

// MinerOption configures a Miner.
type MinerOption func(*Miner)

// WithLogger sets the miner's logger.
func WithLogger(l logrus.FieldLogger) MinerOption {
	return func(m *Miner) { m.log = l }
}

// WithValidator sets the validator used when Options.Verify is set.
func WithValidator(v *Validator) MinerOption {
	return func(m *Miner) { m.validator = v }
}

// NewMiner mines with solver. Without WithValidator, verification uses a
// validator over the same solver.
func NewMiner(solver solve.Solver, opts ...MinerOption) *Miner {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	m := &Miner{solver: solver, log: discard}
	for _, opt := range opts {
		opt(m)
	}
	if m.validator == nil {
		m.validator = NewValidator(solver)
	}
	return m
}

// FeatureImpliedRules mines every rule of b that holds under base: the
// Duquenne-Guigues basis of the solutions satisfying base, decoded into
// feature sets on top of base.
func (m *Miner) FeatureImpliedRules(b *board.Board, base *feature.Set, opts Options) ([]*PatternRule, Stats, error) {
	start := time.Now()
	var stats Stats
	if base == nil {
		base = feature.NewSet(b)
	}
	if base.Board() != b {
		return nil, stats, fmt.Errorf("base features belong to %s, not %s", base.Board().Name(), b.Name())
	}
	log := m.log.WithFields(logrus.Fields{"board": b.Name(), "base": base.CanonicalString()})

	sols, err := m.solver.Solutions(b, base.Features())
	if err != nil {
		return nil, stats, fmt.Errorf("enumerate %s: %w", b.Name(), err)
	}
	stats.Solutions = len(sols)

	fm := featuremap.New(b, opts.Options)
	stats.Attributes = fm.NumAttributes()

	var oracle lattice.ClosureOracle
	if opts.Highlander {
		// filtered per query against base plus the query's own features
		hp, err := highlander.NewPruner(fm, base, sols)
		if err != nil {
			return nil, stats, err
		}
		oracle = hp
	} else {
		population := make([]lattice.SolutionAttributeSet, len(sols))
		for i, c := range sols {
			population[i] = fm.SolutionAttributeSet(c)
		}
		ctx := lattice.NewSolutionFormalContext(fm.NumAttributes(), population)
		oracle = ctx
		if !opts.DisablePruner {
			oracle = lattice.NewTablePruner(ctx, fm.ExitBits())
		}
	}
	log.WithFields(logrus.Fields{
		"solutions":  stats.Solutions,
		"attributes": stats.Attributes,
	}).Debug("running next closure")

	implications := lattice.NextClosure(oracle, lattice.Options{
		ReportEvery:         opts.ReportEvery,
		Progress:            opts.Progress,
		DisableImpliedMasks: opts.DisableImpliedMasks,
	})
	stats.Implications = len(implications)

	invalid := fm.InvalidAttributeSet()
	var out []*PatternRule
	for _, imp := range implications {
		if imp.Consequent.Equals(invalid) {
			stats.Contradicted++
			continue
		}
		rule, err := m.decode(fm, base, imp, opts.Highlander)
		if errors.Is(err, feature.ErrIncompatible) {
			stats.Contradicted++
			continue
		}
		if err != nil {
			return nil, stats, err
		}
		if rule == nil {
			stats.NoOps++
			continue
		}
		if opts.Verify {
			ok, err := m.validator.IsPatternRuleValid(rule, opts.Highlander)
			if err != nil {
				return nil, stats, fmt.Errorf("verify %s: %w", rule, err)
			}
			if !ok {
				stats.Rejected++
				log.WithField("rule", rule.String()).Warn("mined rule failed verification")
				continue
			}
		}
		out = append(out, rule)
	}
	stats.Rules = len(out)
	stats.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"implications": stats.Implications,
		"rules":        stats.Rules,
		"contradicted": stats.Contradicted,
		"rejected":     stats.Rejected,
		"elapsed":      stats.Elapsed,
	}).Info("mined board")
	return out, stats, nil
}

// decode builds the rule for one implication, or nil when it adds nothing to
// base.
func (m *Miner) decode(fm *featuremap.BinaryFeatureMap, base *feature.Set, imp lattice.Implication, hl bool) (*PatternRule, error) {
	ant, err := fm.BitsFeatureSet(imp.Antecedent)
	if err != nil {
		return nil, err
	}
	cons, err := fm.BitsFeatureSet(imp.Consequent)
	if err != nil {
		return nil, err
	}
	input := base.Clone()
	if err := input.ApplyFeaturesFrom(ant); err != nil {
		return nil, err
	}
	output := base.Clone()
	if err := output.ApplyFeaturesFrom(cons); err != nil {
		return nil, err
	}
	if input.Equals(output) {
		return nil, nil
	}
	return newPatternRule(fm.Board(), input, output, hl), nil
}
