package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vegasq/codesearch/query"
)

// CSVSource reads records from a CSV file whose first row names the columns.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the file at path. The file is opened by Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads the whole file. Short rows leave their trailing columns empty;
// fields beyond the header are ignored.
func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &DataSourceError{Op: "open", Path: s.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(ctx, f)
	if err != nil {
		var dsErr *DataSourceError
		if errors.As(err, &dsErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &DataSourceError{Op: "read", Path: s.path, Err: err}
	}
	return ds, nil
}

// Close is a no-op; Load does not keep the file open.
func (s *CSVSource) Close() error {
	return nil
}

// ReadCSV parses CSV data with a header row
func ReadCSV(ctx context.Context, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	records := make([]query.Record, 0)
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := make(query.Record, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				rec[col] = fields[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return &Dataset{Columns: columns, Records: records}, nil
}
