// Package solve enumerates the globally valid edge colorings of a pattern
// board: every vertex carries zero or two black edges, every constraint
// holds, and no black loop closes inside the fragment.
package solve

import (
	"errors"
	"fmt"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

// ErrForeignFeature is returned for constraints that refer to another board.
var ErrForeignFeature = errors.New("feature does not belong to board")

// Solver enumerates the valid colorings of a board under constraints.
// Returned colorings must not be modified by callers.
type Solver interface {
	Solutions(b *board.Board, constraints []feature.Feature) ([]board.Coloring, error)
}

// validVertex reports whether v has an allowed black degree.
func validVertex(c board.Coloring, v *board.Vertex) bool {
	d := c.BlackDegree(v)
	return d == 0 || d == 2
}

func checkConstraints(b *board.Board, constraints []feature.Feature) error {
	for _, f := range constraints {
		for _, e := range f.Edges() {
			if e.Index < 0 || e.Index >= len(b.Edges) || b.Edges[e.Index] != e {
				return fmt.Errorf("%w: %s on %s", ErrForeignFeature, f, b.Name())
			}
		}
	}
	return nil
}

// BruteForce walks edges in index order, pruning on vertex degree and on
// constraints as soon as their edges are decided.
type BruteForce struct{}

// Solutions implements Solver.
func (BruteForce) Solutions(b *board.Board, constraints []feature.Feature) ([]board.Coloring, error) {
	if err := checkConstraints(b, constraints); err != nil {
		return nil, err
	}

	// lastAt[i] lists the vertices and constraints fully decided once edge i
	// is colored.
	doneVertices := make([][]*board.Vertex, len(b.Edges))
	for _, v := range b.Vertices {
		last := -1
		for _, e := range v.Edges {
			last = max(last, e.Index)
		}
		if last >= 0 {
			doneVertices[last] = append(doneVertices[last], v)
		}
	}
	var alwaysCheck []feature.Feature
	doneFeatures := make([][]feature.Feature, len(b.Edges))
	for _, f := range constraints {
		last := -1
		for _, e := range f.Edges() {
			last = max(last, e.Index)
		}
		if last < 0 {
			alwaysCheck = append(alwaysCheck, f)
			continue
		}
		doneFeatures[last] = append(doneFeatures[last], f)
	}

	c := board.NewColoring(b)
	for _, f := range alwaysCheck {
		if !f.IsPossibleWith(c) {
			return nil, nil
		}
	}

	var out []board.Coloring
	var walk func(i int)
	walk = func(i int) {
		if i == len(b.Edges) {
			if !c.HasClosedLoop(b) {
				out = append(out, append(board.Coloring(nil), c...))
			}
			return
		}
		e := b.Edges[i]
		for _, black := range [2]bool{false, true} {
			if black {
				full := false
				for _, v := range e.Vertices {
					if c.BlackDegree(v) >= 2 {
						full = true
					}
				}
				if full {
					continue
				}
			}
			c[i] = black
			if decided(c, doneVertices[i], doneFeatures[i]) {
				walk(i + 1)
			}
			c[i] = false
		}
	}
	walk(0)
	return out, nil
}

func decided(c board.Coloring, vertices []*board.Vertex, features []feature.Feature) bool {
	for _, v := range vertices {
		if !validVertex(c, v) {
			return false
		}
	}
	for _, f := range features {
		if !f.IsPossibleWith(c) {
			return false
		}
	}
	return true
}
