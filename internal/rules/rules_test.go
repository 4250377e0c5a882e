package rules

import (
	"sync"
	"testing"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
	"github.com/agentic-research/patternmine/internal/highlander"
	"github.com/agentic-research/patternmine/internal/lattice"
	"github.com/agentic-research/patternmine/internal/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mine(t *testing.T, b *board.Board, base *feature.Set, opts Options) ([]*PatternRule, Stats) {
	t.Helper()
	rules, stats, err := NewMiner(solve.BruteForce{}).FeatureImpliedRules(b, base, opts)
	require.NoError(t, err)
	return rules, stats
}

func ruleStrings(rules []*PatternRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

func assertSound(t *testing.T, rules []*PatternRule, hl bool) {
	t.Helper()
	cache, err := solve.NewCache(solve.BruteForce{}, solve.DefaultCacheSize)
	require.NoError(t, err)
	v := NewValidator(cache)
	for _, r := range rules {
		ok, err := v.IsPatternRuleValid(r, hl)
		require.NoError(t, err)
		assert.True(t, ok, "unsound rule %s", r)
		assert.NotEmpty(t, r.Deduced(), "no-op rule %s", r)
	}
}

func TestMiner_SquareSoundness(t *testing.T) {
	b := board.Square()
	rules, stats := mine(t, b, nil, DefaultOptions())
	assert.Equal(t, 15, stats.Solutions)
	assert.Equal(t, 24, stats.Attributes)
	require.NotEmpty(t, rules)
	assert.Equal(t, len(rules), stats.Rules)
	assertSound(t, rules, false)
}

func TestMiner_FaceColorsSoundness(t *testing.T) {
	b := board.Square()
	opts := DefaultOptions()
	opts.SolveFaceColors = true
	rules, _ := mine(t, b, nil, opts)
	require.NotEmpty(t, rules)
	assertSound(t, rules, false)
}

func TestMiner_HighlanderVerified(t *testing.T) {
	b := board.Square()
	opts := DefaultOptions()
	opts.Highlander = true
	opts.Verify = true
	rules, stats := mine(t, b, nil, opts)
	assert.Equal(t, 15, stats.Solutions, "no two square solutions look alike")
	assert.Equal(t, len(rules), stats.Rules)
	assertSound(t, rules, true)
	for _, r := range rules {
		assert.True(t, r.Highlander())
	}
}

func TestMiner_HighlanderCluedSoundness(t *testing.T) {
	b, err := board.Grid(2, 2)
	require.NoError(t, err)
	var interior []*board.Face
	for _, f := range b.Faces {
		if !f.IsExit {
			interior = append(interior, f)
		}
	}
	require.Len(t, interior, 4)
	base, err := feature.SetOf(b,
		feature.FaceValue{Face: interior[0], Value: 2},
		feature.FaceValue{Face: interior[3], Value: 2},
	)
	require.NoError(t, err)

	sols, err := solve.BruteForce{}.Solutions(b, base.Features())
	require.NoError(t, err)
	require.Less(t, len(highlander.Filter(sols, base)), len(sols), "clues make some solutions collide")

	opts := DefaultOptions()
	opts.SolveSectors = false
	opts.Highlander = true
	rules, stats := mine(t, b, base, opts)
	require.NotEmpty(t, rules)
	assert.Equal(t, len(sols), stats.Solutions)
	assertSound(t, rules, true)
}

func TestMiner_PrunerAndMasksTransparent(t *testing.T) {
	b := board.Square()
	base := DefaultOptions()
	base.SolveFaceColors = true

	want, _ := mine(t, b, nil, base)
	for _, tweak := range []func(*Options){
		func(o *Options) { o.DisablePruner = true },
		func(o *Options) { o.DisableImpliedMasks = true },
	} {
		opts := base
		tweak(&opts)
		got, _ := mine(t, b, nil, opts)
		assert.Equal(t, ruleStrings(want), ruleStrings(got))
	}
}

func TestMiner_BaseConstraints(t *testing.T) {
	b := board.Square()
	base, err := feature.SetOf(b, feature.FaceValue{Face: b.Faces[0], Value: 1})
	require.NoError(t, err)

	rules, stats := mine(t, b, base, DefaultOptions())
	assert.Equal(t, 4, stats.Solutions, "one black side of the cell")
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.True(t, r.Input().Has(feature.FaceValue{Face: b.Faces[0], Value: 1}))
	}
	assertSound(t, rules, false)
}

func TestMiner_UnsatisfiableBase(t *testing.T) {
	b := board.Square()
	base, err := feature.SetOf(b, feature.FaceValue{Face: b.Faces[0], Value: 4})
	require.NoError(t, err)

	rules, stats := mine(t, b, base, DefaultOptions())
	assert.Zero(t, stats.Solutions)
	assert.Empty(t, rules)
	assert.Equal(t, stats.Implications, stats.Contradicted)
}

func TestMiner_ForeignBase(t *testing.T) {
	_, _, err := NewMiner(solve.BruteForce{}).FeatureImpliedRules(board.Square(), feature.NewSet(board.Square()), DefaultOptions())
	assert.Error(t, err)
}

func TestMiner_Progress(t *testing.T) {
	var reports []lattice.Progress
	opts := DefaultOptions()
	opts.ReportEvery = 5
	opts.Progress = func(p lattice.Progress) { reports = append(reports, p) }
	mine(t, board.Square(), nil, opts)

	require.NotEmpty(t, reports)
	for i, p := range reports {
		assert.Equal(t, (i+1)*5, p.Iteration)
	}
}

func TestTable_ApplyToFixpoint(t *testing.T) {
	b := board.Square()
	rules, _ := mine(t, b, nil, DefaultOptions())
	table := NewTable(rules)
	assert.Equal(t, []string{b.ID()}, table.Boards())
	assert.Equal(t, len(rules), table.Len())

	sec := b.Sectors[0]
	state, err := feature.SetOf(b, feature.BlackEdge{Edge: sec.Edges[0]})
	require.NoError(t, err)
	require.NotEmpty(t, table.Applicable(state))

	for {
		apps := table.Applicable(state)
		if len(apps) == 0 {
			break
		}
		for _, r := range apps {
			for _, f := range r.Deduced() {
				require.NoError(t, state.Add(f))
			}
		}
	}
	assert.True(t, state.ImpliesFeature(feature.SectorNot{Sector: sec, Value: 0}))
}

func TestRecord_RoundTrip(t *testing.T) {
	b := board.Square()
	rules, _ := mine(t, b, nil, DefaultOptions())
	require.NotEmpty(t, rules)

	other := board.Square()
	for _, r := range rules {
		decoded, err := FromRecord(r.Record(), other)
		require.NoError(t, err)
		assert.Equal(t, r.String(), decoded.String())
	}

	g, err := board.Grid(2, 1)
	require.NoError(t, err)
	_, err = FromRecord(rules[0].Record(), g)
	assert.Error(t, err)
}

func TestHotSwapTable(t *testing.T) {
	b := board.Square()
	rules, _ := mine(t, b, nil, DefaultOptions())
	full := NewTable(rules)

	h := NewHotSwapTable(nil)
	assert.Empty(t, h.Rules(b.ID()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := len(h.Rules(b.ID()))
				assert.True(t, n == 0 || n == len(rules))
			}
		}()
	}
	prev := h.Swap(full)
	wg.Wait()

	assert.Zero(t, prev.Len())
	assert.Same(t, full, h.Current())
	assert.Len(t, h.Rules(b.ID()), len(rules))
}
