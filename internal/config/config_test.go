package config

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
)

const sample = `
solve_face_colors = true
highlander        = true
verify            = true
report_every      = 500
cache_size        = 8
database          = "out/rules.db"
solver            = "sat"

board "cell" {
  type = "square"
  features = ["red:x4"]
  clue {
    face  = 0
    value = 1
  }
}

board "strip" {
  type   = "grid"
  width  = 2
  height = 1
}

board "custom" {
  type = "file"
  file = "boards/corner.json"
}
`

func TestLoad(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mine.hcl", []byte(sample), 0o644))
	require.NoError(t, util.WriteFile(fs, "boards/corner.json", []byte(board.EncodeDocument(board.Square())), 0o644))

	cfg, err := Load(fs, "mine.hcl")
	require.NoError(t, err)

	assert.True(t, cfg.Mining.SolveEdges, "default kept")
	assert.True(t, cfg.Mining.SolveSectors, "default kept")
	assert.True(t, cfg.Mining.SolveFaceColors)
	assert.True(t, cfg.Mining.Highlander)
	assert.True(t, cfg.Mining.Verify)
	assert.Equal(t, 500, cfg.Mining.ReportEvery)
	assert.Equal(t, 8, cfg.CacheSize)
	assert.Equal(t, "out/rules.db", cfg.Database)
	assert.Equal(t, SolverSAT, cfg.Solver)
	require.Len(t, cfg.Boards, 3)
	assert.Equal(t, []Clue{{Face: 0, Value: 1}}, cfg.Boards[0].Clues)

	targets, err := cfg.Targets(fs)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	cell := targets[0]
	assert.Equal(t, "cell", cell.Name)
	assert.Equal(t, "cell", cell.Board.Name(), "boards carry their label")
	assert.Equal(t, board.Square().ID(), cell.Board.ID())
	assert.Same(t, cell.Board, cell.Base.Board())
	assert.Equal(t, "red:x4,face-value:f0=1", cell.Base.CanonicalString())

	assert.Len(t, targets[1].Board.Vertices, 6)
	assert.Equal(t, board.Square().ID(), targets[2].Board.ID())
	assert.Equal(t, "custom", targets[2].Board.Name())

	solver, err := cfg.NewSolver()
	require.NoError(t, err)
	sols, err := solver.Solutions(cell.Board, cell.Base.Features())
	require.NoError(t, err)
	assert.Len(t, sols, 2, "one black side, away from the corner of x4")
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse("empty.hcl", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	targets, err := cfg.Targets(memfs.New())
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Zero(t, targets[0].Base.Len())
}

func TestErrors(t *testing.T) {
	fs := memfs.New()

	_, err := Load(fs, "missing.hcl")
	assert.Error(t, err)

	_, err = Parse("bad.hcl", []byte(`solver = "magic"`))
	assert.Error(t, err)

	_, err = Parse("bad.hcl", []byte(`board "x" {`))
	assert.Error(t, err)

	cfg, err := Parse("hex.hcl", []byte(`board "h" { type = "hex" }`))
	require.NoError(t, err)
	_, err = cfg.Targets(fs)
	assert.ErrorIs(t, err, ErrUnknownBoard)

	cfg, err = Parse("clash.hcl", []byte(`
board "c" {
  type = "square"
  features = ["black:e0", "red:e0"]
}`))
	require.NoError(t, err)
	_, err = cfg.Targets(fs)
	assert.ErrorIs(t, err, feature.ErrIncompatible)

	cfg, err = Parse("clue.hcl", []byte(`
board "c" {
  type = "square"
  clue {
    face  = 2
    value = 1
  }
}`))
	require.NoError(t, err)
	_, err = cfg.Targets(fs)
	assert.Error(t, err, "exit faces take no clue")
}
