package reader

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/codesearch/query"
)

const parquetBatchSize = 1024

// ParquetSource reads code entries from a Parquet file.
type ParquetSource struct {
	path string
}

// NewParquetSource creates a source for the file at path. The file is
// opened by Load.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// Load reads every row of the file into memory.
func (s *ParquetSource) Load(ctx context.Context) (*Dataset, error) {
	entries, err := ReadParquetEntries(ctx, s.path)
	if err != nil {
		return nil, err
	}

	records := make([]query.Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record()
	}
	columns := append([]string(nil), CodeEntryColumns...)
	return &Dataset{Columns: columns, Records: records}, nil
}

// Close is a no-op; Load does not keep the file open.
func (s *ParquetSource) Close() error {
	return nil
}

// ReadParquetEntries reads all code entries from a Parquet file.
func ReadParquetEntries(ctx context.Context, path string) ([]CodeEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, &DataSourceError{Op: "stat", Path: path, Err: err}
	}

	// Validate the footer first; NewGenericReader panics on a bad file
	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, &DataSourceError{Op: "open parquet", Path: path, Err: err}
	}

	reader := parquet.NewGenericReader[CodeEntry](file)
	defer func() { _ = reader.Close() }()

	entries := make([]CodeEntry, 0, pqFile.NumRows())
	buf := make([]CodeEntry, parquetBatchSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := reader.Read(buf)
		entries = append(entries, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataSourceError{Op: "read", Path: path, Err: err}
		}
	}

	return entries, nil
}

// WriteParquetEntries writes code entries to a new Parquet file at path.
func WriteParquetEntries(path string, entries []CodeEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return &DataSourceError{Op: "create", Path: path, Err: err}
	}

	writer := parquet.NewGenericWriter[CodeEntry](f)
	if _, err := writer.Write(entries); err != nil {
		_ = f.Close()
		return &DataSourceError{Op: "write", Path: path, Err: err}
	}
	if err := writer.Close(); err != nil {
		_ = f.Close()
		return &DataSourceError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &DataSourceError{Op: "close", Path: path, Err: err}
	}
	return nil
}
