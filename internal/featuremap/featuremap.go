// Package featuremap assigns every solvable feature of a board a fixed bit
// and converts between edge colorings, attribute sets and feature sets.
package featuremap

import (
	"fmt"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
	"github.com/agentic-research/patternmine/internal/lattice"
)

// Options selects which feature families get bits.
type Options struct {
	SolveEdges      bool
	SolveSectors    bool
	SolveFaceColors bool
}

// BinaryFeatureMap is the bit layout for one (board, options) pair:
//
//	edges    exit: 1 bit (red); interior: 2 bits (red, black)
//	sectors  3 bits (not 0, not 1, not 2)
//	faces    2 bits per connected pair (same, opposite)
//
// Face pairs joined by a single interior edge reuse that edge's red and black
// bits when edges are solved.
type BinaryFeatureMap struct {
	board    *board.Board
	opts     Options
	features []feature.Feature
	exitBits []int
	bits     map[string]int
}

// New lays out the bits for b.
func New(b *board.Board, opts Options) *BinaryFeatureMap {
	m := &BinaryFeatureMap{board: b, opts: opts, bits: make(map[string]int)}

	edgeBits := make(map[*board.Edge][2]int)
	if opts.SolveEdges {
		for _, e := range b.Edges {
			if e.IsExit {
				m.exitBits = append(m.exitBits, m.add(feature.RedEdge{Edge: e}))
				continue
			}
			red := m.add(feature.RedEdge{Edge: e})
			black := m.add(feature.BlackEdge{Edge: e})
			edgeBits[e] = [2]int{red, black}
		}
	}
	if opts.SolveSectors {
		for _, s := range b.Sectors {
			for v := 0; v <= 2; v++ {
				m.add(feature.SectorNot{Sector: s, Value: v})
			}
		}
	}
	if opts.SolveFaceColors {
		for _, p := range b.FacePairs() {
			same := feature.FaceColorDual{Pair: p}
			opposite := feature.FaceColorDual{Pair: p, Opposite: true}
			if len(p.Path) == 1 {
				if shared, ok := edgeBits[p.Path[0]]; ok {
					m.bits[same.String()] = shared[0]
					m.bits[opposite.String()] = shared[1]
					continue
				}
			}
			m.add(same)
			m.add(opposite)
		}
	}
	return m
}

func (m *BinaryFeatureMap) add(f feature.Feature) int {
	bit := len(m.features)
	m.features = append(m.features, f)
	m.bits[f.String()] = bit
	return bit
}

// Board returns the mapped board.
func (m *BinaryFeatureMap) Board() *board.Board { return m.board }

// Options returns the layout options.
func (m *BinaryFeatureMap) Options() Options { return m.opts }

// NumAttributes is the number of allocated bits.
func (m *BinaryFeatureMap) NumAttributes() int { return len(m.features) }

// Feature returns the feature decoded from bit.
func (m *BinaryFeatureMap) Feature(bit int) feature.Feature { return m.features[bit] }

// Bit returns the bit encoding f, if f has one.
func (m *BinaryFeatureMap) Bit(f feature.Feature) (int, bool) {
	bit, ok := m.bits[f.String()]
	return bit, ok
}

// ExitBits lists the bits of exit edges in edge order, the keys of a
// lattice.TablePruner.
func (m *BinaryFeatureMap) ExitBits() []int {
	return append([]int(nil), m.exitBits...)
}

// InvalidAttributeSet is the all-ones set, the closure of a contradictory
// query.
func (m *BinaryFeatureMap) InvalidAttributeSet() lattice.AttributeSet {
	return lattice.FullAttributeSet(m.NumAttributes())
}

// SolutionAttributeSet encodes a coloring. An exit bit is optional when no
// edge at the exit vertex is black; otherwise it is set iff the exit edge is
// not black. Every other bit is set iff its feature holds.
func (m *BinaryFeatureMap) SolutionAttributeSet(c board.Coloring) lattice.SolutionAttributeSet {
	n := m.NumAttributes()
	data := lattice.NewBuilder(lattice.EmptyAttributeSet(n))
	optional := lattice.NewBuilder(lattice.EmptyAttributeSet(n))
	for bit, f := range m.features {
		if red, ok := f.(feature.RedEdge); ok && red.Edge.IsExit {
			switch {
			case c.BlackDegree(red.Edge.Vertices[0]) == 0:
				optional.Set(bit)
			case !c.IsBlack(red.Edge):
				data.Set(bit)
			}
			continue
		}
		if f.IsPossibleWith(c) {
			data.Set(bit)
		}
	}
	return lattice.NewSolutionAttributeSet(data.Build(), optional.Build())
}

// RichSolution pairs an enumerated coloring with its encoding.
type RichSolution struct {
	Coloring   board.Coloring
	Attributes lattice.SolutionAttributeSet
}

// RichSolution encodes c.
func (m *BinaryFeatureMap) RichSolution(c board.Coloring) RichSolution {
	return RichSolution{Coloring: c, Attributes: m.SolutionAttributeSet(c)}
}

// RichSolutions encodes every coloring.
func (m *BinaryFeatureMap) RichSolutions(cs []board.Coloring) []RichSolution {
	out := make([]RichSolution, len(cs))
	for i, c := range cs {
		out[i] = m.RichSolution(c)
	}
	return out
}

// BitsFeatureSet decodes bits into a fresh feature set. The error wraps
// feature.ErrIncompatible when the bits contradict each other.
func (m *BinaryFeatureMap) BitsFeatureSet(bits lattice.AttributeSet) (*feature.Set, error) {
	if bits.Width() != m.NumAttributes() {
		return nil, fmt.Errorf("%w: %d bits for a %d bit map", lattice.ErrDimensionMismatch, bits.Width(), m.NumAttributes())
	}
	s := feature.NewSet(m.board)
	for _, bit := range bits.Bits() {
		if err := s.Add(m.features[bit]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AttributeSet encodes the features of s that have bits. Features without a
// bit are reported in the second result.
func (m *BinaryFeatureMap) AttributeSet(s *feature.Set) (lattice.AttributeSet, []feature.Feature) {
	b := lattice.NewBuilder(lattice.EmptyAttributeSet(m.NumAttributes()))
	var unmapped []feature.Feature
	for _, f := range s.Features() {
		if bit, ok := m.Bit(f); ok {
			b.Set(bit)
		} else {
			unmapped = append(unmapped, f)
		}
	}
	return b.Build(), unmapped
}
