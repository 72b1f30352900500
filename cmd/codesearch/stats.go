package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vegasq/codesearch/output"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var (
		by  string
		top int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			column := by
			if column == "" {
				column = cfg.Schema.GroupColumn
			}
			st := svc.Stats(column, top)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Records: %s\n", humanize.Comma(int64(st.TotalCount)))
			fmt.Fprintf(out, "Distinct %s: %s\n", cfg.Schema.DedupColumn, humanize.Comma(int64(st.DistinctKeyCount)))

			lines := make([][]string, 0, len(st.Top))
			for _, g := range st.Top {
				share := 0.0
				if st.TotalCount > 0 {
					share = 100 * float64(g.Count) / float64(st.TotalCount)
				}
				lines = append(lines, []string{
					g.Value,
					humanize.Comma(int64(g.Count)),
					humanize.FtoaWithDigits(share, 1) + "%",
				})
			}
			output.WriteTable(out, []string{column, "Records", "Share"}, lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "column to group by (default: schema.group_column)")
	cmd.Flags().IntVar(&top, "top", 10, "number of groups to show (0 for all)")
	return cmd
}
