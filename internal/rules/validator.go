package rules

import (
	"fmt"

	"github.com/agentic-research/patternmine/internal/highlander"
	"github.com/agentic-research/patternmine/internal/solve"
)

// Validator checks rules against the unconstrained enumeration of their
// board, independent of the mining machinery. Wrap the solver in a
// solve.Cache to enumerate each board once.
type Validator struct {
	solver solve.Solver
}

// NewValidator checks rules with solver.
func NewValidator(solver solve.Solver) *Validator {
	return &Validator{solver: solver}
}

// IsPatternRuleValid reports whether every solution satisfying the rule's
// input also satisfies its output. With highlander set, solutions are first
// filtered against the rule's input.
func (v *Validator) IsPatternRuleValid(rule *PatternRule, hl bool) (bool, error) {
	b := rule.Board()
	sols, err := v.solver.Solutions(b, nil)
	if err != nil {
		return false, fmt.Errorf("enumerate %s: %w", b.Name(), err)
	}
	if hl {
		sols = highlander.Filter(sols, rule.input)
	}
	for _, c := range sols {
		if rule.input.IsSatisfiedBy(c) && !rule.output.IsSatisfiedBy(c) {
			return false, nil
		}
	}
	return true, nil
}
