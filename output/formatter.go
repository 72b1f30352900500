// Package output writes search results as CSV, JSON Lines or a text table.
//
// Every formatter takes rows as []query.Record. Columns are written in the
// order given to SetColumns; without one, the sorted union of the rows'
// columns is used.
//
// Example usage:
//
//	formatter, err := output.NewFormatter("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	formatter.SetColumns(ds.Columns)
//	if err := formatter.Format(result.Rows); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/codesearch/query"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes rows in the formatter's specific format
	Format(rows []query.Record) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)

	// SetColumns fixes the column order. nil restores the default.
	SetColumns(columns []string)
}

// Formats lists the names accepted by NewFormatter.
var Formats = []string{"jsonl", "csv", "table"}

// NewFormatter returns the formatter registered under name. "json" is an
// alias for "jsonl".
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}

// columnsFor returns the explicit column order, or the sorted union of all
// row columns when none is set.
func columnsFor(explicit []string, rows []query.Record) []string {
	if len(explicit) > 0 {
		return explicit
	}
	return query.GetColumnNames(rows)
}
