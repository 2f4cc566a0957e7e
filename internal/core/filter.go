package core

import "strings"

// CategoryAll is the sentinel category meaning "no category constraint".
// The comparison is case-insensitive, so "All" from a dropdown works too.
const CategoryAll = "all"

// Filter is an AND-combined set of optional predicates over expenses.
// Zero-valued fields impose no constraint. Applying a filter is commutative
// and idempotent: sub-predicates may run in any order and reapplication
// yields the identical subset.
type Filter struct {
	StartDate Date
	EndDate   Date
	Category  string
	MinAmount *float64
	MaxAmount *float64
	Keyword   string // case-insensitive substring match on description
}

// ParseFilter validates raw string criteria and builds a Filter. Empty
// strings mean "unset". Unparsable dates or amounts fail here, before any
// query executes; nothing is silently coerced to a default.
func ParseFilter(startDate, endDate, category, minAmount, maxAmount, keyword string) (Filter, error) {
	var f Filter
	var err error

	if strings.TrimSpace(startDate) != "" {
		if f.StartDate, err = ParseDate(startDate); err != nil {
			return Filter{}, err
		}
	}
	if strings.TrimSpace(endDate) != "" {
		if f.EndDate, err = ParseDate(endDate); err != nil {
			return Filter{}, err
		}
	}
	if strings.TrimSpace(minAmount) != "" {
		v, err := ParseAmount(minAmount)
		if err != nil {
			return Filter{}, err
		}
		f.MinAmount = &v
	}
	if strings.TrimSpace(maxAmount) != "" {
		v, err := ParseAmount(maxAmount)
		if err != nil {
			return Filter{}, err
		}
		f.MaxAmount = &v
	}
	f.Category = strings.TrimSpace(category)
	f.Keyword = strings.TrimSpace(keyword)
	return f, nil
}

// HasCategory reports whether the filter constrains the category, i.e. the
// field is set and is not the "all" sentinel.
func (f Filter) HasCategory() bool {
	return f.Category != "" && !strings.EqualFold(f.Category, CategoryAll)
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f.StartDate.IsZero() && f.EndDate.IsZero() && !f.HasCategory() &&
		f.MinAmount == nil && f.MaxAmount == nil && f.Keyword == ""
}

// Matches is the single predicate implementation every backend agrees on.
// SQL stores push the same criteria into WHERE clauses; the memory store
// and in-collection filtering call Matches directly.
func (f Filter) Matches(e Expense) bool {
	if !f.StartDate.IsZero() && e.Date.Before(f.StartDate.Time) {
		return false
	}
	if !f.EndDate.IsZero() && e.Date.After(f.EndDate.Time) {
		return false
	}
	if f.HasCategory() && e.Category != f.Category {
		return false
	}
	if f.MinAmount != nil && e.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && e.Amount > *f.MaxAmount {
		return false
	}
	if f.Keyword != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Keyword)) {
		return false
	}
	return true
}

// Apply returns the subset of expenses matching the filter, preserving the
// input order.
func (f Filter) Apply(expenses []Expense) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
