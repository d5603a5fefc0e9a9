package history

import "sort"

// Group is one calendar date's worth of records, most recent first.
type Group struct {
	Label   string
	Records []Record
}

// GroupByDate sorts records descending by instant (stable, so ties keep
// input order) and partitions them into per-date groups keyed by the local
// long date label. Group order follows the sorted record order, which makes
// it descending by date. Empty input yields no groups.
func GroupByDate(records []Record) []Group {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp.Time)
	})

	var groups []Group
	index := make(map[string]int, len(sorted))
	for _, rec := range sorted {
		label := rec.Timestamp.DateLabel()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}

// Flatten concatenates the groups' records in group order.
func Flatten(groups []Group) []Record {
	var out []Record
	for _, g := range groups {
		out = append(out, g.Records...)
	}
	return out
}
