package board

import (
	"cmp"
	"slices"
)

// FacePair is a pair of faces joined through the dual graph. Path is a
// shortest chain of interior edges crossed walking from A to B; the faces
// have the same color iff an even number of those edges are black.
type FacePair struct {
	A, B *Face
	Path []*Edge
}

// FacePairs returns every connected pair with A.Index < B.Index, ordered by
// (A, B).
func (b *Board) FacePairs() []FacePair { return b.facePairs }

func connectedFacePairs(b *Board) []FacePair {
	var pairs []FacePair
	for _, from := range b.Faces {
		via := dualBFS(b, from)
		for _, to := range b.Faces[from.Index+1:] {
			if _, ok := via[to]; !ok {
				continue
			}
			pairs = append(pairs, FacePair{A: from, B: to, Path: dualPath(from, to, via)})
		}
	}
	return pairs
}

type dualStep struct {
	prev *Face
	edge *Edge
}

// dualBFS explores faces reachable from start across interior edges, trying
// edges in index order so paths are deterministic.
func dualBFS(b *Board, start *Face) map[*Face]dualStep {
	via := map[*Face]dualStep{start: {}}
	queue := []*Face{start}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, e := range sortedEdges(f.Edges) {
			if e.IsExit || len(e.Faces) != 2 {
				continue
			}
			next := e.Faces[0]
			if next == f {
				next = e.Faces[1]
			}
			if _, seen := via[next]; seen {
				continue
			}
			via[next] = dualStep{prev: f, edge: e}
			queue = append(queue, next)
		}
	}
	return via
}

func dualPath(from, to *Face, via map[*Face]dualStep) []*Edge {
	var rev []*Edge
	for f := to; f != from; f = via[f].prev {
		rev = append(rev, via[f].edge)
	}
	path := make([]*Edge, len(rev))
	for i, e := range rev {
		path[len(rev)-1-i] = e
	}
	return path
}

func sortedEdges(edges []*Edge) []*Edge {
	out := slices.Clone(edges)
	slices.SortFunc(out, func(a, b *Edge) int { return cmp.Compare(a.Index, b.Index) })
	return out
}
