package models

import "sort"

// FrequencyEntry pairs a listing id with its contact count.
type FrequencyEntry struct {
	ListingID string
	Count     int
}

// FrequencyTable maps listing ids to contact counts. It remembers the order in
// which listings were inserted so that descending orderings break ties
// deterministically. A table is read-only once built.
type FrequencyTable struct {
	counts    map[string]int
	order     []string
	unmatched int
}

// NewFrequencyTable builds a table from ids in insertion order and their counts.
// Duplicate ids keep their first position. unmatched is the number of contacts
// that referenced no known listing.
func NewFrequencyTable(ids []string, counts map[string]int, unmatched int) *FrequencyTable {
	ft := &FrequencyTable{
		counts:    make(map[string]int, len(ids)),
		order:     make([]string, 0, len(ids)),
		unmatched: unmatched,
	}
	for _, id := range ids {
		if _, dup := ft.counts[id]; dup {
			continue
		}
		ft.counts[id] = counts[id]
		ft.order = append(ft.order, id)
	}
	return ft
}

// Count returns the number of contacts for id and whether id is known.
func (ft *FrequencyTable) Count(id string) (int, bool) {
	n, ok := ft.counts[id]
	return n, ok
}

// Len is the number of listings in the table, including zero-count ones.
func (ft *FrequencyTable) Len() int {
	return len(ft.order)
}

// Total is the sum of all matched contact counts.
func (ft *FrequencyTable) Total() int {
	total := 0
	for _, n := range ft.counts {
		total += n
	}
	return total
}

// Unmatched is the number of contacts whose listing id was not in the table.
func (ft *FrequencyTable) Unmatched() int {
	return ft.unmatched
}

// Sorted returns the entries ordered by count descending, ties in insertion order.
func (ft *FrequencyTable) Sorted() []FrequencyEntry {
	entries := make([]FrequencyEntry, len(ft.order))
	for i, id := range ft.order {
		entries[i] = FrequencyEntry{ListingID: id, Count: ft.counts[id]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
