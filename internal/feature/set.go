package feature

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agentic-research/patternmine/internal/board"
)

// ErrIncompatible is returned when a feature contradicts the set it is added
// to. Callers treat it as "this combination cannot happen", not as a failure.
var ErrIncompatible = errors.New("incompatible features")

// Set is a canonical, contradiction-checked collection of features of one
// board.
type Set struct {
	board    *board.Board
	features map[string]Feature
}

// NewSet returns an empty set over b.
func NewSet(b *board.Board) *Set {
	return &Set{board: b, features: make(map[string]Feature)}
}

// SetOf builds a set from features, failing on the first contradiction.
func SetOf(b *board.Board, features ...Feature) (*Set, error) {
	s := NewSet(b)
	for _, f := range features {
		if err := s.Add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Board returns the board the features refer to.
func (s *Set) Board() *board.Board { return s.board }

// Len returns the number of features.
func (s *Set) Len() int { return len(s.features) }

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{board: s.board, features: make(map[string]Feature, len(s.features))}
	for k, f := range s.features {
		c.features[k] = f
	}
	return c
}

// Features returns the features in canonical order.
func (s *Set) Features() []Feature {
	out := make([]Feature, 0, len(s.features))
	for _, f := range s.features {
		out = append(out, f)
	}
	slices.SortFunc(out, compare)
	return out
}

// Strings returns the canonical strings of the features in order.
func (s *Set) Strings() []string {
	fs := s.Features()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

// CanonicalString joins the canonical feature strings.
func (s *Set) CanonicalString() string {
	return strings.Join(s.Strings(), ",")
}

func (s *Set) String() string { return "{" + s.CanonicalString() + "}" }

// Equals reports whether both sets hold the same features.
func (s *Set) Equals(other *Set) bool {
	if len(s.features) != len(other.features) {
		return false
	}
	for k := range s.features {
		if _, ok := other.features[k]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether f itself is in the set.
func (s *Set) Has(f Feature) bool {
	_, ok := s.features[f.String()]
	return ok
}

// ImpliesFeature reports whether f is in the set or follows directly from
// the edge colors the set fixes.
func (s *Set) ImpliesFeature(f Feature) bool {
	if s.Has(f) {
		return true
	}
	known, colors := s.knownEdges()
	for _, e := range f.Edges() {
		if !known[e.Index] {
			return false
		}
	}
	return f.IsPossibleWith(colors)
}

// Add inserts f, leaving the set unchanged and returning an error wrapping
// ErrIncompatible when f contradicts it.
func (s *Set) Add(f Feature) error {
	key := f.String()
	if _, ok := s.features[key]; ok {
		return nil
	}
	s.features[key] = f
	if err := s.check(f); err != nil {
		delete(s.features, key)
		return err
	}
	return nil
}

// ApplyFeaturesFrom adds every feature of other. On contradiction the set
// may hold a prefix of other's features; callers apply onto a clone.
func (s *Set) ApplyFeaturesFrom(other *Set) error {
	for _, f := range other.Features() {
		if err := s.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// IsSatisfiedBy reports whether every feature holds in the coloring.
func (s *Set) IsSatisfiedBy(c board.Coloring) bool {
	for _, f := range s.features {
		if !f.IsPossibleWith(c) {
			return false
		}
	}
	return true
}

// RequiresRed reports whether the set states e is red.
func (s *Set) RequiresRed(e *board.Edge) bool {
	_, ok := s.features[RedEdge{Edge: e}.String()]
	return ok
}

// RequiresBlack reports whether the set states e is black.
func (s *Set) RequiresBlack(e *board.Edge) bool {
	_, ok := s.features[BlackEdge{Edge: e}.String()]
	return ok
}

// FaceValue returns the clue of f, if any. A face holds at most one clue.
func (s *Set) FaceValue(f *board.Face) (int, bool) {
	for _, feat := range s.features {
		if fv, ok := feat.(FaceValue); ok && fv.Face == f {
			return fv.Value, true
		}
	}
	return 0, false
}

// knownEdges returns which edges have a fixed color and a coloring holding
// the black ones.
func (s *Set) knownEdges() ([]bool, board.Coloring) {
	known := make([]bool, len(s.board.Edges))
	colors := board.NewColoring(s.board)
	for _, f := range s.features {
		switch ef := f.(type) {
		case RedEdge:
			known[ef.Edge.Index] = true
		case BlackEdge:
			known[ef.Edge.Index] = true
			colors[ef.Edge.Index] = true
		}
	}
	return known, colors
}

// check looks for a contradiction introduced by added.
func (s *Set) check(added Feature) error {
	switch f := added.(type) {
	case RedEdge:
		if s.RequiresBlack(f.Edge) {
			return fmt.Errorf("%w: %s and %s", ErrIncompatible, f, BlackEdge(f))
		}
	case BlackEdge:
		if s.RequiresRed(f.Edge) {
			return fmt.Errorf("%w: %s and %s", ErrIncompatible, f, RedEdge(f))
		}
	case SectorNot:
		excluded := 0
		for v := 0; v <= 2; v++ {
			if s.Has(SectorNot{Sector: f.Sector, Value: v}) {
				excluded++
			}
		}
		if excluded == 3 {
			return fmt.Errorf("%w: sector %s excludes every value", ErrIncompatible, f.Sector)
		}
	case FaceColorDual:
		if s.Has(FaceColorDual{Pair: f.Pair, Opposite: !f.Opposite}) {
			return fmt.Errorf("%w: %s-%s both same and opposite", ErrIncompatible, f.Pair.A, f.Pair.B)
		}
	case FaceValue:
		for _, other := range s.features {
			if fv, ok := other.(FaceValue); ok && fv.Face == f.Face && fv.Value != f.Value {
				return fmt.Errorf("%w: %s has two clues", ErrIncompatible, f.Face)
			}
		}
		if f.Value < 0 || f.Value > len(f.Face.Edges) {
			return fmt.Errorf("%w: clue %d on %d edges", ErrIncompatible, f.Value, len(f.Face.Edges))
		}
	}
	return s.checkKnownEdges()
}

// checkKnownEdges evaluates every feature against the fixed edge colors:
// fully decided features must hold, clues must still be reachable.
func (s *Set) checkKnownEdges() error {
	known, colors := s.knownEdges()
	for _, f := range s.features {
		black, red, unknown := 0, 0, 0
		for _, e := range f.Edges() {
			switch {
			case !known[e.Index]:
				unknown++
			case colors[e.Index]:
				black++
			default:
				red++
			}
		}
		if unknown == 0 {
			if !f.IsPossibleWith(colors) {
				return fmt.Errorf("%w: %s contradicted by edge colors", ErrIncompatible, f)
			}
			continue
		}
		if fv, ok := f.(FaceValue); ok {
			if black > fv.Value || red > len(fv.Face.Edges)-fv.Value {
				return fmt.Errorf("%w: %s unreachable", ErrIncompatible, f)
			}
		}
	}
	return nil
}
