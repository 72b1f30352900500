package output

import (
	"encoding/json"
	"io"

	"github.com/vegasq/codesearch/query"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer  io.Writer
	columns []string
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// SetColumns limits each object to the given columns. Missing columns are
// written as empty strings.
func (j *JSONFormatter) SetColumns(columns []string) {
	j.columns = append([]string(nil), columns...)
}

// Format writes rows as JSON Lines (one JSON object per line)
func (j *JSONFormatter) Format(rows []query.Record) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range rows {
		out := row
		if len(j.columns) > 0 {
			out = make(query.Record, len(j.columns))
			for _, col := range j.columns {
				out[col] = row[col]
			}
		}
		if err := encoder.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
