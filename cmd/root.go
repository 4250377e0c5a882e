package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agentic-research/patternmine/internal/config"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	solverName string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "patternmine.hcl", "Path to mining configuration")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Rule database (overrides the configuration)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "", "Solution enumerator: brute or sat")
}

var rootCmd = &cobra.Command{
	Use:           "patternmine",
	Short:         "Mine loop-puzzle deduction rules from small pattern boards",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

// workspace is the filesystem configuration and board files are read from.
var workspace billy.Filesystem = osfs.New(".")

// loadConfig reads the configuration file, falling back to defaults when
// the default path does not exist, and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	switch solverName {
	case "", config.SolverBruteForce, config.SolverSAT:
	default:
		return nil, fmt.Errorf("unknown solver %q", solverName)
	}
	cfg, err := config.Load(workspace, configPath)
	if err != nil {
		if cmd.Flags().Changed("config") {
			return nil, err
		}
		if _, statErr := workspace.Stat(configPath); statErr == nil {
			return nil, err
		}
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	if solverName != "" {
		cfg.Solver = solverName
	}
	return cfg, nil
}
