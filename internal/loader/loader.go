// Package loader bulk-loads a CSV or Parquet code-list file into a SQLite
// table that reader.SQLiteSource can serve.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vegasq/codesearch/reader"
)

// Options controls the import.
type Options struct {
	// Table defaults to reader.DefaultTable.
	Table string
	// IndexColumns are indexed after the load. Columns the source lacks are skipped.
	IndexColumns []string
	Logger       *slog.Logger
}

// Import replaces the table in the database at dbPath with the records of
// srcPath and returns the number of rows written. The database file is
// created if needed.
func Import(ctx context.Context, srcPath, dbPath string, opts Options) (int, error) {
	if opts.Table == "" {
		opts.Table = reader.DefaultTable
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	start := time.Now()

	src, err := openSource(srcPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	ds, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(ds.Columns) == 0 {
		return 0, fmt.Errorf("import %s: no columns", srcPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, &reader.DataSourceError{Op: "open", Path: dbPath, Err: err}
	}
	defer func() { _ = db.Close() }()

	if err := writeTable(ctx, db, opts.Table, ds); err != nil {
		return 0, &reader.DataSourceError{Op: "import", Path: dbPath, Err: err}
	}
	if err := createIndexes(ctx, db, opts.Table, ds.Columns, opts.IndexColumns); err != nil {
		return 0, &reader.DataSourceError{Op: "index", Path: dbPath, Err: err}
	}

	log.Info("import complete",
		"source", srcPath,
		"database", dbPath,
		"table", opts.Table,
		"rows", len(ds.Records),
		"columns", len(ds.Columns),
		"duration", time.Since(start))
	return len(ds.Records), nil
}

// openSource only accepts flat files; importing a database into itself
// would drop the table being read.
func openSource(path string) (reader.Source, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return reader.NewCSVSource(path), nil
	case strings.HasSuffix(strings.ToLower(path), ".parquet"):
		return reader.NewParquetSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported import source %q: expected .csv or .parquet", path)
	}
}

func writeTable(ctx context.Context, db *sql.DB, table string, ds *reader.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quoted := make([]string, len(ds.Columns))
	defs := make([]string, len(ds.Columns))
	marks := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		quoted[i] = reader.QuoteIdent(col)
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+reader.QuoteIdent(table)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", reader.QuoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		reader.QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]interface{}, len(ds.Columns))
	for n, rec := range ds.Records {
		for i, col := range ds.Columns {
			args[i] = rec[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", n+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func createIndexes(ctx context.Context, db *sql.DB, table string, columns, wanted []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	seen := make(map[string]bool)
	for _, col := range wanted {
		if !have[col] || seen[col] {
			continue
		}
		seen[col] = true
		name := reader.QuoteIdent("idx_" + table + "_" + strings.ToLower(col))
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", name, reader.QuoteIdent(table), reader.QuoteIdent(col))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", col, err)
		}
	}
	return nil
}
