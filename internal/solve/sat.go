package solve

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

// maxLocalEdges bounds the edges of one local constraint encoded by listing
// its forbidden assignments.
const maxLocalEdges = 16

// SAT enumerates solutions with the gini solver: each vertex and constraint
// contributes one blocking clause per forbidden local assignment, and every
// model found is blocked before solving again. Closed loops are filtered
// after the fact.
type SAT struct{}

func edgeLit(e *board.Edge) z.Lit { return z.Var(e.Index + 1).Pos() }

// Solutions implements Solver.
func (SAT) Solutions(b *board.Board, constraints []feature.Feature) ([]board.Coloring, error) {
	if err := checkConstraints(b, constraints); err != nil {
		return nil, err
	}

	g := gini.New()
	for _, v := range b.Vertices {
		if err := forbid(g, b, v.Edges, func(c board.Coloring) bool { return validVertex(c, v) }); err != nil {
			return nil, err
		}
	}
	for _, f := range constraints {
		if err := forbid(g, b, f.Edges(), f.IsPossibleWith); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
	}

	var out []board.Coloring
	for g.Solve() == 1 {
		c := board.NewColoring(b)
		for _, e := range b.Edges {
			c[e.Index] = g.Value(edgeLit(e))
		}
		for _, e := range b.Edges {
			if c[e.Index] {
				g.Add(edgeLit(e).Not())
			} else {
				g.Add(edgeLit(e))
			}
		}
		g.Add(z.LitNull)

		if !c.HasClosedLoop(b) {
			out = append(out, c)
		}
	}
	return out, nil
}

// forbid adds a clause excluding every assignment of edges that ok rejects.
func forbid(g *gini.Gini, b *board.Board, edges []*board.Edge, ok func(board.Coloring) bool) error {
	edges = distinct(edges)
	if len(edges) > maxLocalEdges {
		return fmt.Errorf("%d edges in one constraint, limit %d", len(edges), maxLocalEdges)
	}
	c := board.NewColoring(b)
	for mask := 0; mask < 1<<len(edges); mask++ {
		for k, e := range edges {
			c[e.Index] = mask&(1<<k) != 0
		}
		if ok(c) {
			continue
		}
		for _, e := range edges {
			if c[e.Index] {
				g.Add(edgeLit(e).Not())
			} else {
				g.Add(edgeLit(e))
			}
		}
		g.Add(z.LitNull)
	}
	return nil
}

func distinct(edges []*board.Edge) []*board.Edge {
	seen := make(map[*board.Edge]bool, len(edges))
	out := edges[:0:0]
	for _, e := range edges {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
