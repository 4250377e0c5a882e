package board

import (
	"fmt"
	"slices"
)

// Square is the smallest square-grid pattern: one cell, four interior edges,
// four exit vertices each with one exit edge.
func Square() *Board {
	return gridBuilder("square", 1, 1).MustBuild()
}

// Grid is a w×h block of square cells. Every boundary vertex gets one exit
// edge and every boundary edge borders one exit face.
func Grid(w, h int) (*Board, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidBoard, w, h)
	}
	return gridBuilder(fmt.Sprintf("grid-%dx%d", w, h), w, h).Build()
}

func gridBuilder(name string, w, h int) *Builder {
	bb := NewBuilder(name)
	vertex := func(x, y int) int { return y*(w+1) + x }
	for i := 0; i < (w+1)*(h+1); i++ {
		bb.AddVertex()
	}

	horizontal := make(map[[2]int]int)
	for y := 0; y <= h; y++ {
		for x := 0; x < w; x++ {
			horizontal[[2]int{x, y}] = bb.AddEdge(vertex(x, y), vertex(x+1, y))
		}
	}
	vertical := make(map[[2]int]int)
	for y := 0; y < h; y++ {
		for x := 0; x <= w; x++ {
			vertical[[2]int{x, y}] = bb.AddEdge(vertex(x, y), vertex(x, y+1))
		}
	}
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			if x == 0 || x == w || y == 0 || y == h {
				bb.AddExitEdge(vertex(x, y))
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bb.AddFace(false,
				horizontal[[2]int{x, y}],
				vertical[[2]int{x + 1, y}],
				horizontal[[2]int{x, y + 1}],
				vertical[[2]int{x, y}],
			)
		}
	}

	var boundary []int
	for y := 0; y <= h; y += h {
		for x := 0; x < w; x++ {
			boundary = append(boundary, horizontal[[2]int{x, y}])
		}
	}
	for x := 0; x <= w; x += w {
		for y := 0; y < h; y++ {
			boundary = append(boundary, vertical[[2]int{x, y}])
		}
	}
	slices.Sort(boundary)
	for _, e := range boundary {
		bb.AddFace(true, e)
	}
	return bb
}
