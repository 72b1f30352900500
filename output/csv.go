package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/codesearch/query"
)

// CSVFormatter outputs rows as CSV with a header row
type CSVFormatter struct {
	writer  io.Writer
	columns []string
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// SetColumns sets the header and field order
func (c *CSVFormatter) SetColumns(columns []string) {
	c.columns = append([]string(nil), columns...)
}

// Format writes rows as CSV. With no rows and no explicit columns nothing
// is written; with explicit columns the header is always written.
func (c *CSVFormatter) Format(rows []query.Record) error {
	csvWriter := csv.NewWriter(c.writer)

	columns := columnsFor(c.columns, rows)
	if len(columns) > 0 {
		if err := csvWriter.Write(columns); err != nil {
			return err
		}
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = sanitizeCell(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// sanitizeCell guards against CSV injection by quoting values that a
// spreadsheet would evaluate as a formula.
func sanitizeCell(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
