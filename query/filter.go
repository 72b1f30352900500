package query

import (
	"sort"
	"strconv"
	"strings"
)

// ApplyFilter returns the records accepted by pred, in input order.
// A nil predicate accepts everything.
func ApplyFilter(records []Record, pred Predicate) []Record {
	if pred == nil {
		return records
	}

	filtered := make([]Record, 0)
	for _, r := range records {
		if pred(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GetColumnNames returns all unique column names from records, sorted
func GetColumnNames(records []Record) []string {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	columns := make([]string, 0)
	for _, r := range records {
		for col := range r {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// ApplyOrderBy stable-sorts records ascending by column
func ApplyOrderBy(records []Record, column string) []Record {
	if len(records) == 0 || column == "" {
		return records
	}

	// Create a copy to avoid modifying the original slice
	sorted := make([]Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareValues(sorted[i][column], sorted[j][column]) < 0
	})
	return sorted
}

// compareValues orders numeric values before everything else, numerically,
// and compares the rest as strings. It returns -1, 0 or +1.
func compareValues(a, b string) int {
	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)

	switch {
	case aIsNum && bIsNum:
		if aNum < bNum {
			return -1
		}
		if aNum > bNum {
			return 1
		}
		return 0
	case aIsNum:
		return -1
	case bIsNum:
		return 1
	}
	return strings.Compare(a, b)
}

func toFloat64(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f {
		// NaN has no order
		return 0, false
	}
	return f, true
}

// ApplyDedup collapses records sharing a key value into one entry. The last
// record seen for a key wins and takes the position where the key first
// appeared. An empty key returns records unchanged.
func ApplyDedup(records []Record, key string) []Record {
	if key == "" || len(records) == 0 {
		return records
	}

	index := make(map[string]int)
	deduped := make([]Record, 0)
	for _, r := range records {
		k := r[key]
		if i, seen := index[k]; seen {
			deduped[i] = r
			continue
		}
		index[k] = len(deduped)
		deduped = append(deduped, r)
	}
	return deduped
}

// ApplyPage returns the page window of records. Pages past the end are empty.
func ApplyPage(records []Record, page *Page) []Record {
	if page == nil {
		return records
	}

	if page.Number < 1 || page.Size < 1 || len(records) == 0 {
		return []Record{}
	}
	// compare before multiplying so huge page numbers cannot wrap
	if page.Number-1 > (len(records)-1)/page.Size {
		return []Record{}
	}
	start := (page.Number - 1) * page.Size
	end := len(records)
	if page.Size < end-start {
		end = start + page.Size
	}
	return records[start:end]
}
