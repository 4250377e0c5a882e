package store

import (
	"path/filepath"
	"testing"

	"github.com/agentic-research/patternmine/api"
	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/rules"
	"github.com/agentic-research/patternmine/internal/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mineSquare(t *testing.T, hl bool) []*rules.PatternRule {
	t.Helper()
	opts := rules.DefaultOptions()
	opts.Highlander = hl
	rs, _, err := rules.NewMiner(solve.BruteForce{}).FeatureImpliedRules(board.Square(), nil, opts)
	require.NoError(t, err)
	require.NotEmpty(t, rs)
	return rs
}

func writeRules(t *testing.T, dbPath string, rs []*rules.PatternRule, batch int) int {
	t.Helper()
	w, err := NewSQLiteWriter(dbPath)
	require.NoError(t, err)
	w.batchSize = batch
	for _, r := range rs {
		require.NoError(t, w.AddRule(r))
	}
	n := w.Written()
	require.NoError(t, w.Close())
	return n
}

func TestWriteAndLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rules.db")
	rs := mineSquare(t, false)

	assert.Equal(t, len(rs), writeRules(t, dbPath, rs, 3))

	records, err := LoadRules(dbPath)
	require.NoError(t, err)
	require.Len(t, records, len(rs))
	for i, rec := range records {
		assert.Equal(t, rs[i].Record(), rec)
	}

	loaded, err := LoadPatternRules(dbPath)
	require.NoError(t, err)
	require.Len(t, loaded, len(rs))
	for i, r := range loaded {
		assert.Equal(t, rs[i].String(), r.String())
	}
}

func TestDuplicatesIgnored(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rules.db")
	rs := mineSquare(t, false)
	writeRules(t, dbPath, rs, DefaultBatchSize)

	assert.Zero(t, writeRules(t, dbPath, rs, DefaultBatchSize))
	records, err := LoadRules(dbPath)
	require.NoError(t, err)
	assert.Len(t, records, len(rs))
}

func TestLoadBoard(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rules.db")
	w, err := NewSQLiteWriter(dbPath)
	require.NoError(t, err)
	g, err := board.Grid(2, 1)
	require.NoError(t, err)
	require.NoError(t, w.AddBoard(g))
	require.NoError(t, w.Close())

	loaded, err := LoadBoard(dbPath, g.ID())
	require.NoError(t, err)
	assert.Equal(t, g.ID(), loaded.ID())
	assert.Equal(t, g.Name(), loaded.Name())

	_, err = LoadBoard(dbPath, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	boards, err := LoadBoards(dbPath)
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestQuery(t *testing.T) {
	records := []api.RuleRecord{
		{BoardID: "a", BoardName: "square", Highlander: true, Input: []string{"red:e0"}, Output: []string{"red:e0", "red:e1"}},
		{BoardID: "a", BoardName: "square", Input: []string{"black:e0"}, Output: []string{"black:e0", "black:e1"}},
		{BoardID: "b", BoardName: "grid", Highlander: true},
	}

	hl, err := Query(records, `$[?(@.highlander == true)]`)
	require.NoError(t, err)
	assert.Len(t, hl, 2)

	sq, err := Query(records, `$[?(@.board_name == 'square')]`)
	require.NoError(t, err)
	assert.Len(t, sq, 2)

	_, err = Query(records, `$[?(`)
	assert.Error(t, err)
}

func TestStreamRules_StopsOnError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rules.db")
	writeRules(t, dbPath, mineSquare(t, false), DefaultBatchSize)

	seen := 0
	err := StreamRules(dbPath, func(api.RuleRecord) error {
		seen++
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, seen)
}
