package board

import (
	"errors"
	"fmt"
)

// ErrInvalidBoard is returned when a builder describes an impossible board.
var ErrInvalidBoard = errors.New("invalid pattern board")

type edgeSpec struct {
	a, b   int // b < 0 for exit edges
	isExit bool
}

type faceSpec struct {
	isExit bool
	edges  []int
}

// Builder assembles a Board from vertex, edge and face descriptions. Edges
// and faces keep the index order in which they are added.
type Builder struct {
	name     string
	vertices int
	edges    []edgeSpec
	faces    []faceSpec
}

// NewBuilder starts an empty board.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddVertex adds a vertex and returns its index.
func (bb *Builder) AddVertex() int {
	bb.vertices++
	return bb.vertices - 1
}

// AddEdge adds an interior edge between two vertices.
func (bb *Builder) AddEdge(a, b int) int {
	bb.edges = append(bb.edges, edgeSpec{a: a, b: b})
	return len(bb.edges) - 1
}

// AddExitEdge adds an exit edge hanging off vertex v.
func (bb *Builder) AddExitEdge(v int) int {
	bb.edges = append(bb.edges, edgeSpec{a: v, b: -1, isExit: true})
	return len(bb.edges) - 1
}

// AddFace adds a face. Non-exit faces list their edges in cyclic order so
// consecutive edges meet at a corner.
func (bb *Builder) AddFace(isExit bool, edges ...int) int {
	bb.faces = append(bb.faces, faceSpec{isExit: isExit, edges: append([]int(nil), edges...)})
	return len(bb.faces) - 1
}

// Build validates the description and links the board together.
func (bb *Builder) Build() (*Board, error) {
	b := &Board{name: bb.name}
	for i := 0; i < bb.vertices; i++ {
		b.Vertices = append(b.Vertices, &Vertex{Index: i})
	}
	vertex := func(i int) (*Vertex, error) {
		if i < 0 || i >= len(b.Vertices) {
			return nil, fmt.Errorf("%w: vertex %d out of range", ErrInvalidBoard, i)
		}
		return b.Vertices[i], nil
	}

	for i, spec := range bb.edges {
		e := &Edge{Index: i, IsExit: spec.isExit}
		va, err := vertex(spec.a)
		if err != nil {
			return nil, err
		}
		e.Vertices = append(e.Vertices, va)
		va.Edges = append(va.Edges, e)
		if spec.isExit {
			va.IsExit = true
		} else {
			if spec.a == spec.b {
				return nil, fmt.Errorf("%w: edge %d is a self loop", ErrInvalidBoard, i)
			}
			vb, err := vertex(spec.b)
			if err != nil {
				return nil, err
			}
			e.Vertices = append(e.Vertices, vb)
			vb.Edges = append(vb.Edges, e)
		}
		b.Edges = append(b.Edges, e)
	}

	for i, spec := range bb.faces {
		f := &Face{Index: i, IsExit: spec.isExit}
		if len(spec.edges) == 0 {
			return nil, fmt.Errorf("%w: face %d has no edges", ErrInvalidBoard, i)
		}
		for _, ei := range spec.edges {
			if ei < 0 || ei >= len(b.Edges) {
				return nil, fmt.Errorf("%w: face %d references edge %d", ErrInvalidBoard, i, ei)
			}
			e := b.Edges[ei]
			if e.IsExit {
				return nil, fmt.Errorf("%w: face %d bounded by exit edge %d", ErrInvalidBoard, i, ei)
			}
			if len(e.Faces) == 2 {
				return nil, fmt.Errorf("%w: edge %d borders more than two faces", ErrInvalidBoard, ei)
			}
			f.Edges = append(f.Edges, e)
			e.Faces = append(e.Faces, f)
		}
		if err := linkFaceVertices(b, f); err != nil {
			return nil, err
		}
		b.Faces = append(b.Faces, f)
	}

	b.id = canonicalID(b)
	b.facePairs = connectedFacePairs(b)
	return b, nil
}

// linkFaceVertices records a face's vertices and, for non-exit faces, one
// sector per corner.
func linkFaceVertices(b *Board, f *Face) error {
	if f.IsExit {
		seen := make(map[*Vertex]bool)
		for _, e := range f.Edges {
			for _, v := range e.Vertices {
				if !seen[v] {
					seen[v] = true
					f.Vertices = append(f.Vertices, v)
				}
			}
		}
		return nil
	}
	if len(f.Edges) < 3 {
		return fmt.Errorf("%w: face %d needs at least three edges", ErrInvalidBoard, f.Index)
	}
	for k, e := range f.Edges {
		next := f.Edges[(k+1)%len(f.Edges)]
		v := sharedVertex(e, next)
		if v == nil {
			return fmt.Errorf("%w: face %d edges %d and %d do not meet", ErrInvalidBoard, f.Index, e.Index, next.Index)
		}
		f.Vertices = append(f.Vertices, v)
		s := &Sector{Index: len(b.Sectors), Vertex: v, Edges: [2]*Edge{e, next}, Face: f}
		v.Sectors = append(v.Sectors, s)
		b.Sectors = append(b.Sectors, s)
	}
	return nil
}

func sharedVertex(a, b *Edge) *Vertex {
	for _, u := range a.Vertices {
		for _, v := range b.Vertices {
			if u == v {
				return u
			}
		}
	}
	return nil
}

// MustBuild is Build for fixtures known to be valid.
func (bb *Builder) MustBuild() *Board {
	b, err := bb.Build()
	if err != nil {
		panic(err)
	}
	return b
}
