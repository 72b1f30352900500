package reader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vegasq/codesearch/query"
)

// DefaultTable is the table the loader writes and the SQLite source reads.
const DefaultTable = "codelists"

// SQLiteSource reads records from one table of a SQLite database.
// The database is opened read-only and the handle is kept for the life of
// the source.
type SQLiteSource struct {
	path    string
	table   string
	db      *sql.DB
	columns []string
	known   map[string]bool
}

// OpenSQLite opens the database at path read-only and reads the table's columns.
func OpenSQLite(path, table string) (*SQLiteSource, error) {
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &DataSourceError{Op: "open", Path: path, Err: err}
	}

	s := &SQLiteSource{path: path, table: table, db: db}
	if err := s.readColumns(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSource) readColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+QuoteIdent(s.table)+" LIMIT 0")
	if err != nil {
		return &DataSourceError{Op: "query", Path: s.path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return &DataSourceError{Op: "columns", Path: s.path, Err: err}
	}
	s.columns = columns
	s.known = make(map[string]bool, len(columns))
	for _, c := range columns {
		s.known[c] = true
	}
	return nil
}

// Columns returns the table's columns in declaration order
func (s *SQLiteSource) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Load reads every row of the table in insertion order.
func (s *SQLiteSource) Load(ctx context.Context) (*Dataset, error) {
	records, err := s.selectRecords(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	return &Dataset{Columns: s.Columns(), Records: records}, nil
}

// Filter evaluates tree in the database. The statement only carries user
// text as bound parameters.
func (s *SQLiteSource) Filter(ctx context.Context, tree query.Node, spec query.MatchSpec) ([]query.Record, error) {
	where, args, err := BuildWhere(tree, spec, s.known)
	if err != nil {
		return nil, err
	}
	return s.selectRecords(ctx, where, args)
}

func (s *SQLiteSource) selectRecords(ctx context.Context, where string, args []interface{}) ([]query.Record, error) {
	stmt := "SELECT * FROM " + QuoteIdent(s.table)
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &DataSourceError{Op: "query", Path: s.path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &DataSourceError{Op: "columns", Path: s.path, Err: err}
	}

	records := make([]query.Record, 0)
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &DataSourceError{Op: "scan", Path: s.path, Err: err}
		}
		rec := make(query.Record, len(columns))
		for i, col := range columns {
			rec[col] = values[i].String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "read", Path: s.path, Err: err}
	}
	return records, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// QuoteIdent quotes a SQLite identifier
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// String describes the source for logs
func (s *SQLiteSource) String() string {
	return fmt.Sprintf("sqlite:%s/%s", s.path, s.table)
}
