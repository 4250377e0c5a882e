package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentic-research/patternmine/internal/rules"
	"github.com/agentic-research/patternmine/internal/solve"
	"github.com/agentic-research/patternmine/internal/store"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-check every stored rule against a fresh enumeration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cache, err := cfg.NewSolver(solve.WithLogger(log))
		if err != nil {
			return err
		}
		return verifyAll(cmd.OutOrStdout(), cfg.Database, rules.NewValidator(cache))
	},
}

// verifyAll reports every invalid rule and fails if there is one.
func verifyAll(out io.Writer, database string, v *rules.Validator) error {
	loaded, err := store.LoadPatternRules(database)
	if err != nil {
		return err
	}
	invalid := 0
	for _, r := range loaded {
		ok, err := v.IsPatternRuleValid(r, r.Highlander())
		if err != nil {
			return err
		}
		if !ok {
			invalid++
			fmt.Fprintf(out, "INVALID %s\n", r)
		}
	}
	fmt.Fprintf(out, "%d rules checked, %d invalid\n", len(loaded), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid rules", invalid)
	}
	return nil
}
