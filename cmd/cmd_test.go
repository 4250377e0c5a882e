package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/patternmine/internal/config"
	"github.com/agentic-research/patternmine/internal/progress"
	"github.com/agentic-research/patternmine/internal/rules"
	"github.com/agentic-research/patternmine/internal/store"
)

func mineSquare(t *testing.T) string {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Database = filepath.Join(t.TempDir(), "rules.db")

	written, err := mineAll(cfg, log, progress.Chain{progress.NewLogReporter(log), progress.NewMetricsReporter(prometheus.NewRegistry())})
	require.NoError(t, err)
	assert.Positive(t, written)
	return cfg.Database
}

func TestMineAllStoresRules(t *testing.T) {
	db := mineSquare(t)

	loaded, err := store.LoadPatternRules(db)
	require.NoError(t, err)
	require.NotEmpty(t, loaded)
	for _, r := range loaded {
		assert.Equal(t, "square", r.Board().Name())
		assert.False(t, r.Highlander())
	}

	// Mining the same board again adds nothing.
	log, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Database = db
	written, err := mineAll(cfg, log, progress.NewLogReporter(log))
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestVerifyAll(t *testing.T) {
	db := mineSquare(t)
	cache, err := config.Default().NewSolver()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, verifyAll(&out, db, rules.NewValidator(cache)))
	assert.Contains(t, out.String(), ", 0 invalid")
	assert.NotContains(t, out.String(), "INVALID")
}

func TestListRulesQuery(t *testing.T) {
	db := mineSquare(t)

	var all bytes.Buffer
	require.NoError(t, listRules(&all, db, ""))
	lines := strings.Split(strings.TrimSpace(all.String()), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "square: {"), l)
	}

	var none bytes.Buffer
	require.NoError(t, listRules(&none, db, "$[?(@.highlander == true)]"))
	assert.Empty(t, none.String())

	assert.Error(t, listRules(&none, db, "$[?(@.highlander =="))
}

func TestRootCommandUsesConfigFile(t *testing.T) {
	fs := memfs.New()
	db := filepath.Join(t.TempDir(), "rules.db")
	src := `
database = "` + db + `"

board "cell" {
  type = "grid"
  width = 1
  height = 1
  clue {
    face = 0
    value = 3
  }
}
`
	require.NoError(t, util.WriteFile(fs, "mine.hcl", []byte(src), 0o644))

	prev := workspace
	workspace = fs
	t.Cleanup(func() {
		workspace = prev
		configPath = "patternmine.hcl"
		rootCmd.SetArgs(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	rootCmd.SetArgs([]string{"mine", "-c", "mine.hcl", "--log-level", "warn"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "new rules in "+db)

	out.Reset()
	rootCmd.SetArgs([]string{"verify", "-c", "mine.hcl", "--log-level", "warn"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), ", 0 invalid")

	out.Reset()
	rootCmd.SetArgs([]string{"list", "-c", "mine.hcl", "-q", "$[?(@.board_name == 'cell')]"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "cell: {")
}

func TestLoadConfigRejectsUnknownSolver(t *testing.T) {
	prev := solverName
	solverName = "quantum"
	t.Cleanup(func() { solverName = prev })

	_, err := loadConfig(rootCmd)
	assert.ErrorContains(t, err, "unknown solver")
}
