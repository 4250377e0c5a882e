// Package board models pattern boards: small fragments of loop-puzzle
// topology with designated exit edges where the fragment meets the rest of
// the puzzle.
package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Vertex is a lattice point of the fragment. An exit vertex carries at least
// one exit edge.
type Vertex struct {
	Index   int
	IsExit  bool
	Edges   []*Edge
	Sectors []*Sector
}

// Edge is a segment the loop may use. Exit edges have a single vertex and
// stand for every edge of the surrounding puzzle incident to that vertex.
type Edge struct {
	Index    int
	IsExit   bool
	Vertices []*Vertex
	Faces    []*Face
}

// Sector is the corner of a non-exit face at one of its vertices.
type Sector struct {
	Index  int
	Vertex *Vertex
	Edges  [2]*Edge
	Face   *Face
}

// Face is a cell of the fragment. Exit faces model the surrounding region
// across a boundary edge.
type Face struct {
	Index    int
	IsExit   bool
	Edges    []*Edge
	Vertices []*Vertex
}

// Board is an immutable pattern board.
type Board struct {
	name     string
	id       string
	Vertices []*Vertex
	Edges    []*Edge
	Sectors  []*Sector
	Faces    []*Face

	facePairs []FacePair
}

// Name is the human-readable label given at construction.
func (b *Board) Name() string { return b.name }

// ID is a canonical identifier derived from the topology alone; structurally
// identical boards share it.
func (b *Board) ID() string { return b.id }

// Renamed returns b under another name. The copy shares b's topology, so the
// ID is unchanged.
func (b *Board) Renamed(name string) *Board {
	c := *b
	c.name = name
	return &c
}

func (b *Board) String() string {
	return fmt.Sprintf("%s[v%d e%d s%d f%d]", b.name, len(b.Vertices), len(b.Edges), len(b.Sectors), len(b.Faces))
}

// ExitEdges returns the exit edges in index order.
func (b *Board) ExitEdges() []*Edge {
	var out []*Edge
	for _, e := range b.Edges {
		if e.IsExit {
			out = append(out, e)
		}
	}
	return out
}

// Other returns the vertex of e that is not v, or nil for exit edges.
func (e *Edge) Other(v *Vertex) *Vertex {
	for _, u := range e.Vertices {
		if u != v {
			return u
		}
	}
	return nil
}

func (e *Edge) String() string {
	if e.IsExit {
		return "x" + strconv.Itoa(e.Index)
	}
	return "e" + strconv.Itoa(e.Index)
}

func (f *Face) String() string { return "f" + strconv.Itoa(f.Index) }

func (s *Sector) String() string { return "s" + strconv.Itoa(s.Index) }

// canonicalID hashes the topology of the board.
func canonicalID(b *Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "v%d|", len(b.Vertices))
	for _, e := range b.Edges {
		sb.WriteString(e.String())
		for _, v := range e.Vertices {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(v.Index))
		}
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, f := range b.Faces {
		if f.IsExit {
			sb.WriteByte('F')
		} else {
			sb.WriteByte('f')
		}
		for _, e := range f.Edges {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(e.Index))
		}
		sb.WriteByte(',')
	}
	return strconv.FormatUint(xxhash.Sum64String(sb.String()), 16)
}
