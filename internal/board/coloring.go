package board

import (
	"cmp"
	"slices"
	"strings"
)

// Coloring records which edges of a board are black (part of the loop),
// indexed by edge index. Every other edge is red.
type Coloring []bool

// NewColoring returns an all-red coloring for b.
func NewColoring(b *Board) Coloring {
	return make(Coloring, len(b.Edges))
}

// ColoringOf returns a coloring with the given edges black.
func ColoringOf(b *Board, black ...*Edge) Coloring {
	c := NewColoring(b)
	for _, e := range black {
		c[e.Index] = true
	}
	return c
}

// IsBlack reports whether e is black.
func (c Coloring) IsBlack(e *Edge) bool { return c[e.Index] }

// BlackEdges lists the black edges of b in index order.
func (c Coloring) BlackEdges(b *Board) []*Edge {
	var out []*Edge
	for _, e := range b.Edges {
		if c[e.Index] {
			out = append(out, e)
		}
	}
	return out
}

// BlackDegree counts the black edges incident to v.
func (c Coloring) BlackDegree(v *Vertex) int {
	n := 0
	for _, e := range v.Edges {
		if c[e.Index] {
			n++
		}
	}
	return n
}

// Key renders the coloring as a string of 0/1 per edge.
func (c Coloring) Key() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, black := range c {
		if black {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ExitConnections pairs up the black exit edges joined by a black path
// through the fragment. Each pair is ordered (low, high) and the list is
// sorted by its first element.
func (c Coloring) ExitConnections(b *Board) [][2]int {
	visited := make([]bool, len(b.Edges))
	var pairs [][2]int
	for _, start := range b.Edges {
		if !start.IsExit || !c[start.Index] || visited[start.Index] {
			continue
		}
		end := c.walk(start, visited)
		if end == nil || end == start {
			continue
		}
		lo, hi := start.Index, end.Index
		if hi < lo {
			lo, hi = hi, lo
		}
		pairs = append(pairs, [2]int{lo, hi})
	}
	slices.SortFunc(pairs, func(a, b [2]int) int { return cmp.Compare(a[0], b[0]) })
	return pairs
}

// walk follows the black path beginning at exit edge start until it reaches
// another exit edge, marking every edge visited.
func (c Coloring) walk(start *Edge, visited []bool) *Edge {
	visited[start.Index] = true
	prev := start
	v := start.Vertices[0]
	for {
		var next *Edge
		for _, e := range v.Edges {
			if e != prev && c[e.Index] && !visited[e.Index] {
				next = e
				break
			}
		}
		if next == nil {
			return nil
		}
		visited[next.Index] = true
		if next.IsExit {
			return next
		}
		prev = next
		v = next.Other(v)
	}
}

// HasClosedLoop reports whether some black component contains no exit edge,
// i.e. closes on itself inside the fragment.
func (c Coloring) HasClosedLoop(b *Board) bool {
	seen := make([]bool, len(b.Edges))
	for _, e := range b.Edges {
		if !c[e.Index] || seen[e.Index] {
			continue
		}
		touchesExit := false
		stack := []*Edge{e}
		seen[e.Index] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if cur.IsExit {
				touchesExit = true
			}
			for _, v := range cur.Vertices {
				for _, n := range v.Edges {
					if c[n.Index] && !seen[n.Index] {
						seen[n.Index] = true
						stack = append(stack, n)
					}
				}
			}
		}
		if !touchesExit {
			return true
		}
	}
	return false
}
