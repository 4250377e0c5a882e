package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agentic-research/patternmine/internal/config"
	"github.com/agentic-research/patternmine/internal/progress"
	"github.com/agentic-research/patternmine/internal/rules"
	"github.com/agentic-research/patternmine/internal/solve"
	"github.com/agentic-research/patternmine/internal/store"
)

var (
	mineHighlander  bool
	mineVerify      bool
	mineFaceColors  bool
	mineReportEvery int
	metricsFile     string
)

func init() {
	mineCmd.Flags().BoolVar(&mineHighlander, "highlander", false, "Assume puzzles have a unique solution")
	mineCmd.Flags().BoolVar(&mineVerify, "verify", false, "Re-check every rule before storing it")
	mineCmd.Flags().BoolVar(&mineFaceColors, "face-colors", false, "Mine face color relations")
	mineCmd.Flags().IntVar(&mineReportEvery, "report-every", 0, "Progress period in closure iterations")
	mineCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write prometheus metrics to this file when done")
	rootCmd.AddCommand(mineCmd)
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine rules for every configured board into the rule database",
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
		flags := cmd.Flags()
		if flags.Changed("highlander") {
			cfg.Mining.Highlander = mineHighlander
		}
		if flags.Changed("verify") {
			cfg.Mining.Verify = mineVerify
		}
		if flags.Changed("face-colors") {
			cfg.Mining.SolveFaceColors = mineFaceColors
		}
		if flags.Changed("report-every") {
			cfg.Mining.ReportEvery = mineReportEvery
		}

		reg := prometheus.NewRegistry()
		reporter := progress.Chain{progress.NewLogReporter(log), progress.NewMetricsReporter(reg)}

		written, err := mineAll(cfg, log, reporter)
		if err != nil {
			return err
		}
		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %d new rules in %s\n", written, cfg.Database)
		return nil
	},
}

// mineAll mines every configured board and stores the rules, returning the
// number of rules that were not already in the database.
func mineAll(cfg *config.Config, log logrus.FieldLogger, reporter progress.Reporter) (int, error) {
	targets, err := cfg.Targets(workspace)
	if err != nil {
		return 0, err
	}
	cache, err := cfg.NewSolver(solve.WithLogger(log))
	if err != nil {
		return 0, err
	}
	miner := rules.NewMiner(cache, rules.WithLogger(log), rules.WithValidator(rules.NewValidator(cache)))

	w, err := store.NewSQLiteWriter(cfg.Database)
	if err != nil {
		return 0, err
	}
	for _, t := range targets {
		opts := cfg.Mining
		opts.Progress = progress.Func(reporter, t.Name)

		mined, stats, err := miner.FeatureImpliedRules(t.Board, t.Base, opts)
		if err != nil {
			_ = w.Close()
			return 0, fmt.Errorf("mine %s: %w", t.Name, err)
		}
		reporter.Finished(t.Name, stats)
		if err := w.AddBoard(t.Board); err != nil {
			_ = w.Close()
			return 0, err
		}
		for _, r := range mined {
			if err := w.AddRule(r); err != nil {
				_ = w.Close()
				return 0, err
			}
		}
	}
	written := w.Written()
	if err := w.Close(); err != nil {
		return 0, err
	}
	return written, nil
}
