// Package rules mines deduction rules from pattern boards and checks them
// against an independent enumeration.
package rules

import (
	"fmt"

	"github.com/agentic-research/patternmine/api"
	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

// PatternRule states that on its board, whenever every input feature holds,
// every output feature holds too. Rules are immutable.
type PatternRule struct {
	board      *board.Board
	input      *feature.Set
	output     *feature.Set
	highlander bool
}

func newPatternRule(b *board.Board, input, output *feature.Set, highlander bool) *PatternRule {
	return &PatternRule{board: b, input: input.Clone(), output: output.Clone(), highlander: highlander}
}

// Board returns the board the rule applies to.
func (r *PatternRule) Board() *board.Board { return r.board }

// Input returns a copy of the premise.
func (r *PatternRule) Input() *feature.Set { return r.input.Clone() }

// Output returns a copy of the conclusion, a superset of the input.
func (r *PatternRule) Output() *feature.Set { return r.output.Clone() }

// Highlander reports whether the rule relies on solution uniqueness.
func (r *PatternRule) Highlander() bool { return r.highlander }

// Deduced lists the output features not already in the input.
func (r *PatternRule) Deduced() []feature.Feature {
	var out []feature.Feature
	for _, f := range r.output.Features() {
		if !r.input.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (r *PatternRule) String() string {
	h := ""
	if r.highlander {
		h = " [highlander]"
	}
	return fmt.Sprintf("%s: %s -> %s%s", r.board.Name(), r.input, r.output, h)
}

// Record converts the rule to its persisted form.
func (r *PatternRule) Record() api.RuleRecord {
	return api.RuleRecord{
		BoardID:    r.board.ID(),
		BoardName:  r.board.Name(),
		Highlander: r.highlander,
		Input:      r.input.Strings(),
		Output:     r.output.Strings(),
	}
}

// FromRecord rebuilds a persisted rule on b.
func FromRecord(rec api.RuleRecord, b *board.Board) (*PatternRule, error) {
	if rec.BoardID != b.ID() {
		return nil, fmt.Errorf("rule for board %s decoded on %s", rec.BoardID, b.ID())
	}
	input, err := feature.ParseSet(b, rec.Input)
	if err != nil {
		return nil, fmt.Errorf("decode rule input: %w", err)
	}
	output, err := feature.ParseSet(b, rec.Output)
	if err != nil {
		return nil, fmt.Errorf("decode rule output: %w", err)
	}
	return &PatternRule{board: b, input: input, output: output, highlander: rec.Highlander}, nil
}
