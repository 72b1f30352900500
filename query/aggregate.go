package query

import (
	"sort"
)

// GroupCount is the number of records sharing one column value
type GroupCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats summarises a record set
type Stats struct {
	TotalCount       int `json:"total_count"`
	DistinctKeyCount int `json:"distinct_key_count"`

	records []Record
}

// AggregateStats counts the records and the distinct values of keyColumn
func AggregateStats(records []Record, keyColumn string) *Stats {
	keys := make(map[string]struct{})
	for _, r := range records {
		keys[r[keyColumn]] = struct{}{}
	}
	return &Stats{
		TotalCount:       len(records),
		DistinctKeyCount: len(keys),
		records:          records,
	}
}

// TopNBy returns the n largest groups of column, by count descending and
// then value ascending. n <= 0 returns every group.
func (s *Stats) TopNBy(column string, n int) []GroupCount {
	groups := GroupCounts(s.records, column)
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// GroupCounts counts rows per value of column, largest group first
func GroupCounts(rows []Record, column string) []GroupCount {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r[column]]++
	}

	groups := make([]GroupCount, 0, len(counts))
	for value, count := range counts {
		groups = append(groups, GroupCount{Value: value, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	return groups
}
