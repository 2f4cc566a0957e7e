package core

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Weekly    Granularity = "week"
	Monthly   Granularity = "month"
	Quarterly Granularity = "quarter"
	Yearly    Granularity = "year"
)

type (
	// Granularity selects the calendar period expenses are grouped by.
	Granularity string

	// PeriodTotal is one aggregation bucket: a period label and the sum
	// of amounts falling into it.
	PeriodTotal struct {
		Period string  `json:"period"`
		Total  float64 `json:"total"`
	}
)

// ParseGranularity accepts the full granularity names plus the single-letter
// shorthands the report actions use (w/m/q/y).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "w":
		return Weekly, nil
	case "month", "m":
		return Monthly, nil
	case "quarter", "q":
		return Quarterly, nil
	case "year", "y":
		return Yearly, nil
	default:
		return "", fmt.Errorf("invalid granularity %q (want week, month, quarter or year)", s)
	}
}

// Label returns the period label containing the given date. Labels are
// zero-padded so lexicographic order is chronological order within one
// granularity: 2024-W03, 2024-01, 2024-Q1, 2024. Weeks use the ISO
// week-year, which may differ from the calendar year at year boundaries.
func (g Granularity) Label(d Date) string {
	switch g {
	case Weekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Monthly:
		return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
	case Quarterly:
		quarter := (int(d.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", d.Year(), quarter)
	default:
		return fmt.Sprintf("%04d", d.Year())
	}
}

// AggregateByPeriod groups expenses by the calendar period containing their
// date and sums amounts per group, returning buckets in chronological
// order. An empty collection yields an empty slice, meaning "no data to
// display" rather than an error. The grand total across buckets equals the
// collection's Summary.Total regardless of granularity.
func AggregateByPeriod(expenses []Expense, g Granularity) []PeriodTotal {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[g.Label(e.Date)] += e.Amount
	}

	out := make([]PeriodTotal, 0, len(totals))
	for period, total := range totals {
		out = append(out, PeriodTotal{Period: period, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
