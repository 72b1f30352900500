package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/codesearch/query"
)

// TableFormatter renders rows as an aligned text table for terminals
type TableFormatter struct {
	writer  io.Writer
	columns []string
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// SetColumns sets the header and column order
func (t *TableFormatter) SetColumns(columns []string) {
	t.columns = append([]string(nil), columns...)
}

// Format renders all rows in one table. An empty result with no explicit
// columns renders nothing.
func (t *TableFormatter) Format(rows []query.Record) error {
	columns := columnsFor(t.columns, rows)
	if len(columns) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = row[col]
		}
		table.Append(line)
	}
	table.Render()
	return nil
}

// WriteTable renders a header and preformatted lines. It is used for
// summaries that are not records, such as stats.
func WriteTable(w io.Writer, header []string, lines [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(lines)
	table.Render()
}
