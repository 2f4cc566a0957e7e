package core

import (
	"math"
	"sort"
)

// Summary is the KPI set computed over a collection of expenses. StdDev and
// Variance are population (not sample) statistics, matching the dashboard
// semantics the outlier threshold is defined against.
type Summary struct {
	Count       int     `json:"count"`
	Total       float64 `json:"total"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	StdDev      float64 `json:"std_dev"`
	Variance    float64 `json:"variance"`
	TopCategory string  `json:"top_category"`
}

// Summarize computes the KPI set over the given collection. It returns
// ok=false for an empty collection: an explicit "no data" result rather
// than zero-valued totals that would imply data exists. Every call computes
// fresh from its input; nothing is cached.
func Summarize(expenses []Expense) (Summary, bool) {
	if len(expenses) == 0 {
		return Summary{}, false
	}

	s := Summary{
		Count: len(expenses),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}

	amounts := make([]float64, len(expenses))
	counts := make(map[string]int)
	for i, e := range expenses {
		amounts[i] = e.Amount
		s.Total += e.Amount
		if e.Amount < s.Min {
			s.Min = e.Amount
		}
		if e.Amount > s.Max {
			s.Max = e.Amount
		}
		counts[e.Category]++
	}
	s.Mean = s.Total / float64(len(amounts))

	for _, a := range amounts {
		d := a - s.Mean
		s.Variance += d * d
	}
	s.Variance /= float64(len(amounts))
	s.StdDev = math.Sqrt(s.Variance)

	sort.Float64s(amounts)
	mid := len(amounts) / 2
	if len(amounts)%2 == 0 {
		s.Median = (amounts[mid-1] + amounts[mid]) / 2
	} else {
		s.Median = amounts[mid]
	}

	// Modal category; ties resolved deterministically by taking the
	// lexicographically smallest name.
	for cat, n := range counts {
		best := counts[s.TopCategory]
		if s.TopCategory == "" || n > best || (n == best && cat < s.TopCategory) {
			s.TopCategory = cat
		}
	}

	return s, true
}
