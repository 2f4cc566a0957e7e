package core

import (
	"math"
	"sort"
)

// Outliers flags the expenses whose amount deviates from the collection
// mean by more than two population standard deviations. The Summary must
// be the one Summarize produced for the same collection, so statistics and
// outlier detection share a single computation path instead of drifting
// apart in two implementations.
//
// The result is a pure function of the input collection and must be
// recomputed whenever it changes; callers never persist or cache it.
func Outliers(expenses []Expense, s Summary) map[int64]struct{} {
	flagged := make(map[int64]struct{})
	if len(expenses) == 0 {
		return flagged
	}
	threshold := 2 * s.StdDev
	for _, e := range expenses {
		if math.Abs(e.Amount-s.Mean) > threshold {
			flagged[e.ID] = struct{}{}
		}
	}
	return flagged
}

// OutlierIDs returns the flagged set as a sorted slice, convenient for
// rendering and JSON responses.
func OutlierIDs(expenses []Expense, s Summary) []int64 {
	flagged := Outliers(expenses, s)
	ids := make([]int64, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
