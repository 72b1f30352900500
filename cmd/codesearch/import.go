package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vegasq/codesearch/internal/loader"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import SRC DB",
		Short: "Load a CSV or Parquet dataset into a SQLite database",
		Long: `Load a CSV or Parquet dataset into a SQLite database.

The table (data.table) is dropped and recreated, and the ID, group, dedup
and Description columns are indexed. Point data.path at the database to
serve it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			n, err := loader.Import(cmd.Context(), args[0], args[1], loader.Options{
				Table: cfg.Data.Table,
				IndexColumns: []string{
					cfg.Schema.IDColumn,
					cfg.Schema.GroupColumn,
					cfg.Schema.DedupColumn,
					"Description",
				},
				Logger: log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s records into %s\n", humanize.Comma(int64(n)), args[1])
			return nil
		},
	}
}
