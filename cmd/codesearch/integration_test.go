package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/codesearch/query"
	"github.com/vegasq/codesearch/reader"
)

// createTestParquetFile creates a temporary parquet file with test data
func createTestParquetFile(t *testing.T, dir, filename string, rows []reader.CodeEntry) string {
	t.Helper()
	testFile := filepath.Join(dir, filename)

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[reader.CodeEntry](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	return testFile
}

func testEntries() []reader.CodeEntry {
	return []reader.CodeEntry{
		{Description: "Acute bronchitis", SNOMEDConceptID: "10509002", MedCodeID: "3", CodelistName: "Respiratory", SourceCodelist: "CPRD"},
		{Description: "Chronic bronchitis", SNOMEDConceptID: "63480004", MedCodeID: "1", CodelistName: "COPD", SourceCodelist: "CPRD"},
		{Description: "Asthma", SNOMEDConceptID: "195967001", MedCodeID: "2", CodelistName: "Asthma", SourceCodelist: "OpenSAFELY"},
		{Description: "Acute bronchitis due to virus", SNOMEDConceptID: "10509002", MedCodeID: "4", CodelistName: "Respiratory", SourceCodelist: "OpenSAFELY"},
	}
}

// run executes the root command and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeLines(t *testing.T, out string) []query.Record {
	t.Helper()
	var rows []query.Record
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var r query.Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		rows = append(rows, r)
	}
	return rows
}

func medCodes(rows []query.Record) string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r["Med_Code_ID"]
	}
	return strings.Join(ids, ",")
}

func TestSearchCommand(t *testing.T) {
	data := createTestParquetFile(t, t.TempDir(), "codes.parquet", testEntries())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default columns", args: []string{"bronchitis"}, want: "1,3,4"},
		{name: "not", args: []string{"bronchitis NOT chronic"}, want: "3,4"},
		{name: "or", args: []string{"copd OR asthma"}, want: "1,2"},
		{name: "phrase", args: []string{`"due to"`}, want: "4"},
		{name: "column flag", args: []string{"copd", "-c", "Description"}, want: ""},
		{name: "exact", args: []string{"asthma", "-t", "exact"}, want: "2"},
		{name: "fuzzy", args: []string{"asthmas", "--fuzzy"}, want: "2"},
		{name: "unique", args: []string{"acute", "--unique"}, want: "4"},
		{name: "page", args: []string{"", "--page", "2", "--page-size", "2"}, want: "3,4"},
		{name: "sort by group", args: []string{"bronchitis", "--sort", "group"}, want: "1,3,4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search", "--data", data}, tt.args...)
			stdout, stderr, err := run(t, args...)
			if err != nil {
				t.Fatalf("search error = %v (stderr: %s)", err, stderr)
			}
			if got := medCodes(decodeLines(t, stdout)); got != tt.want {
				t.Errorf("ids = %q, want %q", got, tt.want)
			}
			if !strings.Contains(stderr, "matching records") {
				t.Errorf("stderr missing summary: %q", stderr)
			}
		})
	}
}

func TestSearchCommand_Formats(t *testing.T) {
	data := createTestParquetFile(t, t.TempDir(), "codes.parquet", testEntries())

	t.Run("csv", func(t *testing.T) {
		stdout, _, err := run(t, "search", "--data", data, "-f", "csv", "bronchitis")
		if err != nil {
			t.Fatal(err)
		}
		records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if strings.Join(records[0], ",") != strings.Join(reader.CodeEntryColumns, ",") {
			t.Errorf("header = %v", records[0])
		}
		if len(records) != 4 {
			t.Errorf("got %d lines, want header + 3", len(records))
		}
	})

	t.Run("table", func(t *testing.T) {
		stdout, _, err := run(t, "search", "--data", data, "-f", "table", "asthma")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout, "Med_Code_ID") || !strings.Contains(stdout, "195967001") {
			t.Errorf("table output:\n%s", stdout)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, _, err := run(t, "search", "--data", data, "-f", "xml", "asthma"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSearchCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	data := createTestParquetFile(t, dir, "codes.parquet", testEntries())

	t.Run("unmatched paren", func(t *testing.T) {
		_, _, err := run(t, "search", "--data", data, "asthma)")
		if !errors.Is(err, query.ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("bad type", func(t *testing.T) {
		_, _, err := run(t, "search", "--data", data, "-t", "regex", "asthma")
		if !errors.Is(err, query.ErrInvalidConfiguration) {
			t.Errorf("error = %v, want ErrInvalidConfiguration", err)
		}
	})

	t.Run("missing data file", func(t *testing.T) {
		_, _, err := run(t, "search", "--data", filepath.Join(dir, "missing.parquet"), "asthma")
		var dsErr *reader.DataSourceError
		if !errors.As(err, &dsErr) {
			t.Errorf("error = %v, want *DataSourceError", err)
		}
	})

	t.Run("no query argument", func(t *testing.T) {
		if _, _, err := run(t, "search", "--data", data); err == nil {
			t.Error("expected argument error")
		}
	})
}

func TestStatsCommand(t *testing.T) {
	data := createTestParquetFile(t, t.TempDir(), "codes.parquet", testEntries())

	stdout, _, err := run(t, "stats", "--data", data, "--top", "1")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	for _, want := range []string{"Records: 4", "Distinct SNOMED_CT_Concept_ID: 3", "Respiratory", "50%"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stats output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "COPD") {
		t.Errorf("--top 1 should show one group:\n%s", stdout)
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	src := createTestParquetFile(t, dir, "codes.parquet", testEntries())
	db := filepath.Join(dir, "codes.db")

	stdout, _, err := run(t, "import", src, db)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(stdout, "imported 4 records") {
		t.Errorf("import output = %q", stdout)
	}

	// the database serves the same results as the file it came from
	fromFile, _, err := run(t, "search", "--data", src, "bronchitis NOT chronic")
	if err != nil {
		t.Fatal(err)
	}
	fromDB, _, err := run(t, "search", "--data", db, "bronchitis NOT chronic")
	if err != nil {
		t.Fatal(err)
	}
	if medCodes(decodeLines(t, fromDB)) != medCodes(decodeLines(t, fromFile)) {
		t.Errorf("database results %q differ from file results %q", fromDB, fromFile)
	}

	t.Setenv("CODESEARCH_SEARCH_PUSHDOWN", "true")
	pushed, _, err := run(t, "search", "--data", db, "bronchitis NOT chronic")
	if err != nil {
		t.Fatal(err)
	}
	if medCodes(decodeLines(t, pushed)) != "3,4" {
		t.Errorf("push-down results = %q", pushed)
	}
}
