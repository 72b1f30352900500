package reader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vegasq/codesearch/query"
)

// Dataset is a loaded record set with its columns in source order.
type Dataset struct {
	Columns []string
	Records []query.Record
}

// Source loads the full dataset. Implementations are read-only.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Close() error
}

// Filterer is a Source that can evaluate a predicate tree itself. Results
// come back in source order, like the records of Load.
type Filterer interface {
	Filter(ctx context.Context, tree query.Node, spec query.MatchSpec) ([]query.Record, error)
}

// DataSourceError wraps a failure to access the underlying store.
type DataSourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// OpenSource picks a Source by file extension. table is only used for SQLite.
//
//	.csv                    CSV with a header row
//	.parquet                Parquet file of code entries
//	.db, .sqlite, .sqlite3  SQLite database, opened read-only
func OpenSource(path, table string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSource(path), nil
	case ".parquet":
		return NewParquetSource(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path, table)
	default:
		return nil, fmt.Errorf("unsupported data file %q: expected .csv, .parquet or .db", path)
	}
}
