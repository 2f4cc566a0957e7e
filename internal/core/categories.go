package core

import "sort"

// CategoryTotal is one per-category bucket: a category name and the sum of
// amounts recorded under it.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// AggregateByCategory sums amounts per category, returning buckets ordered
// by total descending with ties broken by category name, so the biggest
// spending category always comes first and the order is deterministic.
// The grand total across buckets equals the collection's Summary.Total.
func AggregateByCategory(expenses []Expense) []CategoryTotal {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}
