package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vegasq/codesearch/query"
)

func TestJSONFormatter_Format(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		rows      []query.Record
		wantLines int
		check     func(t *testing.T, objs []map[string]string)
	}{
		{
			name:      "empty rows",
			rows:      []query.Record{},
			wantLines: 0,
		},
		{
			name: "multiple rows",
			rows: []query.Record{
				{"Description": "Asthma", "Med_Code_ID": "3"},
				{"Description": "Acute bronchitis", "Med_Code_ID": "1"},
			},
			wantLines: 2,
			check: func(t *testing.T, objs []map[string]string) {
				if objs[1]["Description"] != "Acute bronchitis" {
					t.Errorf("second object = %v", objs[1])
				}
			},
		},
		{
			name:    "restricted columns",
			columns: []string{"Med_Code_ID", "Missing"},
			rows: []query.Record{
				{"Description": "Asthma", "Med_Code_ID": "3"},
			},
			wantLines: 1,
			check: func(t *testing.T, objs []map[string]string) {
				if len(objs[0]) != 2 {
					t.Errorf("object = %v, want 2 keys", objs[0])
				}
				if v, ok := objs[0]["Missing"]; !ok || v != "" {
					t.Errorf("Missing = %q, %v", v, ok)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter := NewJSONFormatter(&buf)
			formatter.SetColumns(tt.columns)

			if err := formatter.Format(tt.rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			output := strings.TrimSpace(buf.String())
			if tt.wantLines == 0 {
				if output != "" {
					t.Errorf("Format() output should be empty, got %q", output)
				}
				return
			}

			lines := strings.Split(output, "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("Format() produced %d lines, want %d", len(lines), tt.wantLines)
			}
			objs := make([]map[string]string, len(lines))
			for i, line := range lines {
				if err := json.Unmarshal([]byte(line), &objs[i]); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", i, err)
				}
			}
			if tt.check != nil {
				tt.check(t, objs)
			}
		})
	}
}
