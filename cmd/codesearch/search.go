package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vegasq/codesearch/output"
	"github.com/vegasq/codesearch/query"
)

type searchOptions struct {
	columns    []string
	searchType string
	fuzzy      bool
	sort       string
	unique     bool
	page       int
	pageSize   int
	format     string
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	so := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search the dataset and print matching records",
		Long: `Search the dataset with a boolean query.

Terms separated by spaces must all match. OR joins alternatives, NOT
excludes the next term or group, parentheses group and double quotes
keep a phrase together:

  codesearch search 'bronchitis (acute OR chronic) NOT "with asthma"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(so.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			searchType := so.searchType
			if searchType == "" {
				searchType = cfg.Search.DefaultType
			}
			columns := so.columns
			if len(columns) == 0 {
				columns = cfg.Search.DefaultColumns
			}

			req := query.SearchRequest{
				Query: args[0],
				Match: query.MatchSpec{
					SearchType: query.SearchType(searchType),
					Columns:    columns,
					UseFuzzy:   so.fuzzy,
				},
				Sort: query.SortKey(so.sort),
			}
			if so.unique {
				req.DedupKey = cfg.Schema.DedupColumn
			}
			if so.page > 0 {
				size := so.pageSize
				if size <= 0 {
					size = cfg.Search.PageSize
				}
				req.Page = &query.Page{Number: so.page, Size: size}
			}

			svc, err := openService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			res, err := svc.Search(cmd.Context(), req)
			if err != nil {
				return err
			}

			formatter.SetColumns(svc.Columns())
			if err := formatter.Format(res.Rows); err != nil {
				return fmt.Errorf("failed to write results: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s of %s matching records\n",
				humanize.Comma(int64(len(res.Rows))), humanize.Comma(int64(res.TotalCount)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&so.columns, "column", "c", nil, "column to search (repeatable; default from config)")
	f.StringVarP(&so.searchType, "type", "t", "", "exact, starts_with, ends_with or partial")
	f.BoolVar(&so.fuzzy, "fuzzy", false, "tolerate one missing or extra trailing character (partial only)")
	f.StringVar(&so.sort, "sort", string(query.SortByID), "sort key: id or group")
	f.BoolVar(&so.unique, "unique", false, "keep one record per dedup key")
	f.IntVar(&so.page, "page", 0, "page number (0 prints every result)")
	f.IntVar(&so.pageSize, "page-size", 0, "page size (default from config)")
	f.StringVarP(&so.format, "format", "f", "jsonl", "output format: jsonl, csv or table")
	return cmd
}
