package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/patternmine/internal/store"
)

var listQuery string

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "JSONPath filter, e.g. $[?(@.highlander == true)]")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return listRules(cmd.OutOrStdout(), cfg.Database, listQuery)
	},
}

func listRules(out io.Writer, database, query string) error {
	records, err := store.LoadRules(database)
	if err != nil {
		return err
	}
	if query != "" {
		if records, err = store.Query(records, query); err != nil {
			return err
		}
	}
	for _, rec := range records {
		mark := ""
		if rec.Highlander {
			mark = " [highlander]"
		}
		fmt.Fprintf(out, "%s: {%s} -> {%s}%s\n",
			rec.BoardName, strings.Join(rec.Input, ","), strings.Join(rec.Output, ","), mark)
	}
	return nil
}
