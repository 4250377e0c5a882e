// Package feature describes atomic facts about a pattern board (edge colors,
// sector turn exclusions, face color relations, clues) and collections of
// them that are checked for contradictions as they grow.
package feature

import (
	"fmt"

	"github.com/agentic-research/patternmine/internal/board"
)

// Kind orders features in canonical form.
type Kind int

const (
	KindRedEdge Kind = iota
	KindBlackEdge
	KindSectorNot
	KindFaceColor
	KindFaceValue
)

// Feature is one symbolic fact about a board.
type Feature interface {
	Kind() Kind
	// Edges are the edges whose colors decide the feature.
	Edges() []*board.Edge
	// IsPossibleWith reports whether a complete edge coloring satisfies the
	// feature. Only the colors of Edges() are consulted.
	IsPossibleWith(c board.Coloring) bool
	// String is the canonical text form, unique per feature.
	String() string
	// order is the position inside the kind for canonical sorting.
	order() []int
}

// RedEdge states that an edge is not part of the loop. On an exit edge it
// states that none of the surrounding edges it stands for are.
type RedEdge struct{ Edge *board.Edge }

func (f RedEdge) Kind() Kind                           { return KindRedEdge }
func (f RedEdge) Edges() []*board.Edge                 { return []*board.Edge{f.Edge} }
func (f RedEdge) IsPossibleWith(c board.Coloring) bool { return !c.IsBlack(f.Edge) }
func (f RedEdge) String() string                       { return "red:" + f.Edge.String() }
func (f RedEdge) order() []int                         { return []int{f.Edge.Index} }

// BlackEdge states that an edge is part of the loop.
type BlackEdge struct{ Edge *board.Edge }

func (f BlackEdge) Kind() Kind                           { return KindBlackEdge }
func (f BlackEdge) Edges() []*board.Edge                 { return []*board.Edge{f.Edge} }
func (f BlackEdge) IsPossibleWith(c board.Coloring) bool { return c.IsBlack(f.Edge) }
func (f BlackEdge) String() string                       { return "black:" + f.Edge.String() }
func (f BlackEdge) order() []int                         { return []int{f.Edge.Index} }

// SectorNot states that the loop does not use exactly Value of the sector's
// two edges.
type SectorNot struct {
	Sector *board.Sector
	Value  int
}

func (f SectorNot) Kind() Kind { return KindSectorNot }
func (f SectorNot) Edges() []*board.Edge {
	return []*board.Edge{f.Sector.Edges[0], f.Sector.Edges[1]}
}

func (f SectorNot) IsPossibleWith(c board.Coloring) bool {
	n := 0
	for _, e := range f.Sector.Edges {
		if c.IsBlack(e) {
			n++
		}
	}
	return n != f.Value
}

func (f SectorNot) String() string { return fmt.Sprintf("sector-not-%d:%s", f.Value, f.Sector) }
func (f SectorNot) order() []int   { return []int{f.Sector.Index, f.Value} }

// FaceColorDual states that two faces lie on the same side of the loop, or
// on opposite sides when Opposite is set.
type FaceColorDual struct {
	Pair     board.FacePair
	Opposite bool
}

func (f FaceColorDual) Kind() Kind           { return KindFaceColor }
func (f FaceColorDual) Edges() []*board.Edge { return f.Pair.Path }

func (f FaceColorDual) IsPossibleWith(c board.Coloring) bool {
	odd := false
	for _, e := range f.Pair.Path {
		if c.IsBlack(e) {
			odd = !odd
		}
	}
	return odd == f.Opposite
}

func (f FaceColorDual) String() string {
	rel := "same"
	if f.Opposite {
		rel = "opposite"
	}
	return fmt.Sprintf("face-%s:%s-%s", rel, f.Pair.A, f.Pair.B)
}

func (f FaceColorDual) order() []int {
	o := 0
	if f.Opposite {
		o = 1
	}
	return []int{f.Pair.A.Index, f.Pair.B.Index, o}
}

// FaceValue is a clue: exactly Value edges of the face are black.
type FaceValue struct {
	Face  *board.Face
	Value int
}

func (f FaceValue) Kind() Kind           { return KindFaceValue }
func (f FaceValue) Edges() []*board.Edge { return f.Face.Edges }

func (f FaceValue) IsPossibleWith(c board.Coloring) bool {
	n := 0
	for _, e := range f.Face.Edges {
		if c.IsBlack(e) {
			n++
		}
	}
	return n == f.Value
}

func (f FaceValue) String() string { return fmt.Sprintf("face-value:%s=%d", f.Face, f.Value) }
func (f FaceValue) order() []int   { return []int{f.Face.Index, f.Value} }

// compare orders features canonically: by kind, then position.
func compare(a, b Feature) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	oa, ob := a.order(), b.order()
	for i := range oa {
		if i >= len(ob) {
			return 1
		}
		if oa[i] != ob[i] {
			if oa[i] < ob[i] {
				return -1
			}
			return 1
		}
	}
	if len(oa) < len(ob) {
		return -1
	}
	return 0
}
