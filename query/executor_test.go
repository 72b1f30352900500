package query

import (
	"errors"
	"strconv"
	"testing"
)

var exampleSchema = Schema{IDColumn: "id", GroupColumn: "group", DedupColumn: "key"}

func exampleRecords() []Record {
	return []Record{
		{"id": "1", "desc": "Acute bronchitis"},
		{"id": "2", "desc": "Chronic bronchitis"},
		{"id": "3", "desc": "Asthma"},
	}
}

func ids(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch_EndToEnd(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantTotal int
	}{
		{name: "single term", query: "bronchitis", wantIDs: []string{"1", "2"}, wantTotal: 2},
		{name: "explicit and", query: "bronchitis AND chronic", wantIDs: []string{"2"}, wantTotal: 1},
		{name: "implicit and", query: "bronchitis chronic", wantIDs: []string{"2"}, wantTotal: 1},
		{name: "group with negation", query: "(asthma OR bronchitis) AND NOT chronic", wantIDs: []string{"1", "3"}, wantTotal: 2},
		{name: "blank query matches all", query: "   ", wantIDs: []string{"1", "2", "3"}, wantTotal: 3},
		{name: "no match", query: "diabetes", wantIDs: []string{}, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SearchRequest{
				Query: tt.query,
				Match: MatchSpec{SearchType: SearchPartial, Columns: []string{"desc"}},
				Sort:  SortByID,
			}
			result, err := Search(exampleRecords(), req, exampleSchema)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got := ids(result.Rows); !equalStrings(got, tt.wantIDs) {
				t.Errorf("rows = %v, want %v", got, tt.wantIDs)
			}
			if result.TotalCount != tt.wantTotal {
				t.Errorf("TotalCount = %d, want %d", result.TotalCount, tt.wantTotal)
			}
			if result.Rows == nil {
				t.Error("Rows should be empty, not nil")
			}
		})
	}
}

func TestSearch_Errors(t *testing.T) {
	match := MatchSpec{SearchType: SearchPartial, Columns: []string{"desc"}}
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{name: "unmatched close", req: SearchRequest{Query: "asthma)", Match: match}, wantErr: ErrParse},
		{name: "empty columns", req: SearchRequest{Query: "asthma", Match: MatchSpec{SearchType: SearchPartial}}, wantErr: ErrInvalidConfiguration},
		{name: "empty columns with blank query", req: SearchRequest{Match: MatchSpec{}}, wantErr: ErrInvalidConfiguration},
		{name: "bad sort key", req: SearchRequest{Query: "asthma", Match: match, Sort: "date"}, wantErr: ErrInvalidConfiguration},
		{name: "page zero", req: SearchRequest{Query: "asthma", Match: match, Page: &Page{Number: 0, Size: 20}}, wantErr: ErrInvalidConfiguration},
		{name: "size zero", req: SearchRequest{Query: "asthma", Match: match, Page: &Page{Number: 1, Size: 0}}, wantErr: ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(exampleRecords(), tt.req, exampleSchema)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Search() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func numberedRecords(n int) []Record {
	records := make([]Record, n)
	// reverse order so sorting is exercised
	for i := 0; i < n; i++ {
		id := n - i
		records[i] = Record{"id": strconv.Itoa(id), "desc": "row"}
	}
	return records
}

func TestExecute_Pagination(t *testing.T) {
	records := numberedRecords(45)
	tests := []struct {
		page      int
		wantFirst string
		wantLast  string
		wantLen   int
	}{
		{page: 1, wantFirst: "1", wantLast: "20", wantLen: 20},
		{page: 2, wantFirst: "21", wantLast: "40", wantLen: 20},
		{page: 3, wantFirst: "41", wantLast: "45", wantLen: 5},
		{page: 4, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run("page "+strconv.Itoa(tt.page), func(t *testing.T) {
			result := Execute(records, nil, ExecOptions{
				SortColumn: "id",
				Page:       &Page{Number: tt.page, Size: DefaultPageSize},
			})
			if result.TotalCount != 45 {
				t.Errorf("TotalCount = %d, want 45", result.TotalCount)
			}
			if len(result.Rows) != tt.wantLen {
				t.Fatalf("len(Rows) = %d, want %d", len(result.Rows), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got := result.Rows[0]["id"]; got != tt.wantFirst {
				t.Errorf("first id = %s, want %s", got, tt.wantFirst)
			}
			if got := result.Rows[len(result.Rows)-1]["id"]; got != tt.wantLast {
				t.Errorf("last id = %s, want %s", got, tt.wantLast)
			}
		})
	}
}

func TestExecute_DedupBeforePaging(t *testing.T) {
	records := []Record{
		{"id": "1", "key": "a", "v": "first"},
		{"id": "2", "key": "b"},
		{"id": "3", "key": "a", "v": "last"},
		{"id": "4", "key": "c"},
	}
	result := Execute(records, nil, ExecOptions{
		SortColumn: "id",
		DedupKey:   "key",
		Page:       &Page{Number: 1, Size: 2},
	})
	if result.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", result.TotalCount)
	}
	if got := ids(result.Rows); !equalStrings(got, []string{"3", "2"}) {
		t.Errorf("rows = %v, want [3 2]", got)
	}
}

func TestExecute_DoesNotModifyInput(t *testing.T) {
	records := numberedRecords(5)
	before := ids(records)
	Execute(records, nil, ExecOptions{SortColumn: "id", DedupKey: "desc"})
	if after := ids(records); !equalStrings(before, after) {
		t.Errorf("input reordered: %v -> %v", before, after)
	}
}

func TestSearch_SortByGroup(t *testing.T) {
	records := []Record{
		{"id": "1", "group": "Respiratory", "desc": "asthma"},
		{"id": "2", "group": "Asthma", "desc": "asthma"},
		{"id": "3", "group": "COPD", "desc": "asthma"},
	}
	req := SearchRequest{
		Query: "asthma",
		Match: MatchSpec{SearchType: SearchPartial, Columns: []string{"desc"}},
		Sort:  SortByGroup,
	}
	result, err := Search(records, req, exampleSchema)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(result.Rows); !equalStrings(got, []string{"2", "3", "1"}) {
		t.Errorf("rows = %v, want [2 3 1]", got)
	}
}
