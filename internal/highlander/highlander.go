// Package highlander removes solutions that a puzzle with a unique solution
// could never rely on: configurations that look identical from outside the
// fragment to some other configuration.
package highlander

import (
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

// Indeterminate lists, in index order, the edges whose color the set does
// not pin down: not fixed red or black and not on a clued face.
func Indeterminate(set *feature.Set) []*board.Edge {
	b := set.Board()
	var out []*board.Edge
	for _, e := range b.Edges {
		if set.RequiresRed(e) || set.RequiresBlack(e) || clued(set, e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func clued(set *feature.Set, e *board.Edge) bool {
	for _, f := range e.Faces {
		if _, ok := set.FaceValue(f); ok {
			return true
		}
	}
	return false
}

// Key renders what the outside observes of c: one state per indeterminate
// edge ('1' black, '0' not black, '?' an exit edge at a vertex with no black
// edge) followed by the exit pairs the loop connects.
func Key(c board.Coloring, set *feature.Set) string {
	return key(c, set, Indeterminate(set))
}

func key(c board.Coloring, set *feature.Set, edges []*board.Edge) string {
	var sb strings.Builder
	for _, e := range edges {
		switch {
		case c.IsBlack(e):
			sb.WriteByte('1')
		case e.IsExit && c.BlackDegree(e.Vertices[0]) == 0 && !set.RequiresRed(e):
			sb.WriteByte('?')
		default:
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('|')
	for i, p := range c.ExitConnections(set.Board()) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(p[0]))
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(p[1]))
	}
	return sb.String()
}

// Filter drops solutions with a black edge the set requires red, then drops
// every solution whose key another solution shares. Order is preserved.
func Filter(solutions []board.Coloring, set *feature.Set) []board.Coloring {
	keep := Survivors(solutions, set)
	out := make([]board.Coloring, 0, keep.GetCardinality())
	iter := keep.Iterator()
	for iter.HasNext() {
		out = append(out, solutions[iter.Next()])
	}
	return out
}

// Survivors returns the indices of the solutions Filter keeps.
func Survivors(solutions []board.Coloring, set *feature.Set) *roaring.Bitmap {
	edges := Indeterminate(set)
	required := requiredRed(set)

	keys := make([]string, len(solutions))
	counts := make(map[string]int, len(solutions))
next:
	for i, c := range solutions {
		for _, e := range required {
			if c.IsBlack(e) {
				continue next
			}
		}
		keys[i] = key(c, set, edges)
		counts[keys[i]]++
	}

	out := roaring.New()
	for i, k := range keys {
		if k != "" && counts[k] == 1 {
			out.Add(uint32(i))
		}
	}
	return out
}

func requiredRed(set *feature.Set) []*board.Edge {
	var out []*board.Edge
	for _, e := range set.Board().Edges {
		if set.RequiresRed(e) {
			out = append(out, e)
		}
	}
	return out
}
