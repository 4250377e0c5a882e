package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquare_Topology(t *testing.T) {
	b := Square()
	assert.Equal(t, "square", b.Name())
	assert.Len(t, b.Vertices, 4)
	assert.Len(t, b.Edges, 8)
	assert.Len(t, b.ExitEdges(), 4)
	assert.Len(t, b.Sectors, 4)
	assert.Len(t, b.Faces, 5)

	for _, v := range b.Vertices {
		assert.True(t, v.IsExit, "vertex %d", v.Index)
		assert.Len(t, v.Edges, 3)
		assert.Len(t, v.Sectors, 1)
	}
	for _, e := range b.Edges[:4] {
		assert.False(t, e.IsExit)
		assert.Len(t, e.Faces, 2)
	}
	for _, e := range b.Edges[4:] {
		assert.True(t, e.IsExit)
		assert.Len(t, e.Vertices, 1)
		assert.Empty(t, e.Faces)
	}
}

func TestGrid_Topology(t *testing.T) {
	b, err := Grid(2, 1)
	require.NoError(t, err)
	assert.Len(t, b.Vertices, 6)
	// 4 horizontal + 3 vertical interior, 6 exits
	assert.Len(t, b.Edges, 13)
	assert.Len(t, b.ExitEdges(), 6)
	assert.Len(t, b.Sectors, 8)
	// 2 cells + 6 boundary edges
	assert.Len(t, b.Faces, 8)

	_, err = Grid(0, 3)
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestBoardID_Structural(t *testing.T) {
	g, err := Grid(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Square().ID(), g.ID(), "names do not affect identity")

	g2, err := Grid(2, 1)
	require.NoError(t, err)
	assert.NotEqual(t, g.ID(), g2.ID())
}

func TestFacePairs_Square(t *testing.T) {
	b := Square()
	pairs := b.FacePairs()
	// interior face to each of 4 exit faces, plus 6 exit-exit pairs through it
	require.Len(t, pairs, 10)

	single, double := 0, 0
	for _, p := range pairs {
		assert.Less(t, p.A.Index, p.B.Index)
		switch len(p.Path) {
		case 1:
			single++
			assert.Equal(t, 0, p.A.Index)
		case 2:
			double++
		default:
			t.Fatalf("unexpected path length %d", len(p.Path))
		}
	}
	assert.Equal(t, 4, single)
	assert.Equal(t, 6, double)
}

func TestBuilder_Errors(t *testing.T) {
	bb := NewBuilder("bad")
	v := bb.AddVertex()
	bb.AddEdge(v, v)
	_, err := bb.Build()
	assert.ErrorIs(t, err, ErrInvalidBoard)

	bb = NewBuilder("bad-face")
	a, b, c := bb.AddVertex(), bb.AddVertex(), bb.AddVertex()
	e0 := bb.AddEdge(a, b)
	x := bb.AddExitEdge(c)
	bb.AddFace(false, e0, x)
	_, err = bb.Build()
	assert.ErrorIs(t, err, ErrInvalidBoard)

	bb = NewBuilder("open-face")
	a, b, c, d := bb.AddVertex(), bb.AddVertex(), bb.AddVertex(), bb.AddVertex()
	bb.AddFace(false, bb.AddEdge(a, b), bb.AddEdge(c, d), bb.AddEdge(d, a))
	_, err = bb.Build()
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestDocument_RoundTrip(t *testing.T) {
	g, err := Grid(2, 2)
	require.NoError(t, err)

	parsed, err := ParseDocument([]byte(EncodeDocument(g)))
	require.NoError(t, err)
	assert.Equal(t, g.ID(), parsed.ID())
	assert.Equal(t, g.Name(), parsed.Name())
	assert.Len(t, parsed.Sectors, len(g.Sectors))
}

func TestParseDocument(t *testing.T) {
	src := `{
		"name": "corner",
		"vertices": 3,
		"edges": [[0, 1], [1, 2]],
		"exits": [0, 1, 2]
	}`
	b, err := ParseDocument([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "corner", b.Name())
	assert.Len(t, b.Edges, 5)
	assert.True(t, b.Edges[2].IsExit)

	_, err = ParseDocument([]byte(`{"vertices": "three"}`))
	assert.Error(t, err)
	_, err = ParseDocument([]byte(`{not json`))
	assert.Error(t, err)
}

func TestColoring_ExitConnections(t *testing.T) {
	b := Square()
	e := b.Edges
	// top edge (v0-v1) with the exits of v0 and v1
	c := ColoringOf(b, e[0], e[4], e[5])
	assert.Equal(t, [][2]int{{4, 5}}, c.ExitConnections(b))
	assert.False(t, c.HasClosedLoop(b))
	assert.Equal(t, "10001100", c.Key())

	// top and bottom edges: two separate strands
	c = ColoringOf(b, e[0], e[1], e[4], e[5], e[6], e[7])
	assert.Equal(t, [][2]int{{4, 5}, {6, 7}}, c.ExitConnections(b))

	// the four interior edges close a loop
	loop := ColoringOf(b, e[0], e[1], e[2], e[3])
	assert.True(t, loop.HasClosedLoop(b))
	assert.Empty(t, loop.ExitConnections(b))
}

func TestRenamed(t *testing.T) {
	b := Square()
	r := b.Renamed("corner")
	assert.Equal(t, "corner", r.Name())
	assert.Equal(t, "square", b.Name())
	assert.Equal(t, b.ID(), r.ID())
	assert.Same(t, b.Edges[0], r.Edges[0])
}
