// Package storage provides the durable expense store behind a single
// interface with sqlite, postgres, and in-memory backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tally/internal/core"
)

// ErrNotFound is returned by update and delete operations that reference an
// id the store does not hold.
var ErrNotFound = errors.New("expense not found")

// Store is the CRUD contract every backend implements. Each operation is a
// single atomic unit: it either fully applies or leaves the store
// unchanged. ListExpenses returns records ordered by date descending, then
// id descending; that ordering is part of the contract so every front-end
// renders the same sequence.
type Store interface {
	// CreateExpense validates and inserts a new record, returning the
	// store-assigned id. The ID field of the argument is ignored; ids
	// are unique, immutable, and monotonically increasing.
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)

	// GetExpense returns the record with the given id, or ErrNotFound.
	GetExpense(ctx context.Context, id int64) (core.Expense, error)

	// UpdateExpense atomically replaces every field except the id.
	UpdateExpense(ctx context.Context, e core.Expense) error

	// DeleteExpense removes the record with the given id.
	DeleteExpense(ctx context.Context, id int64) error

	// ListExpenses returns the records matching the filter in the
	// contract ordering. A zero filter returns everything.
	ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error)

	// ImportExpenses inserts a batch as one atomic unit: either every
	// record is inserted or none are. Returns the assigned ids.
	ImportExpenses(ctx context.Context, expenses []core.Expense) ([]int64, error)

	// ListCategories returns the distinct category names present in the
	// store, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	Close() error
}

// listQuery builds the filtered SELECT shared by the SQL backends. The
// placeholder function abstracts over sqlite's "?" and postgres' "$n".
//
// The keyword is pushed into the query only when it is pure ASCII: sqlite's
// built-in LOWER() folds ASCII only, so a non-ASCII keyword pushed as LIKE
// would not match what Filter.Matches matches. keywordPushed reports
// whether the caller must still apply the keyword predicate in Go.
func listQuery(f core.Filter, placeholder func(n int) string) (query string, args []any, keywordPushed bool) {
	var b strings.Builder
	b.WriteString("SELECT id, amount, category, date, description FROM expenses WHERE 1=1")

	add := func(clause string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&b, " AND %s %s", clause, placeholder(len(args)))
	}

	if !f.StartDate.IsZero() {
		add("date >=", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		add("date <=", f.EndDate.String())
	}
	if f.HasCategory() {
		add("category =", f.Category)
	}
	if f.MinAmount != nil {
		add("amount >=", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("amount <=", *f.MaxAmount)
	}
	if f.Keyword != "" && isASCII(f.Keyword) {
		args = append(args, "%"+escapeLike(strings.ToLower(f.Keyword))+"%")
		fmt.Fprintf(&b, ` AND LOWER(description) LIKE %s ESCAPE '\'`, placeholder(len(args)))
		keywordPushed = true
	}

	b.WriteString(" ORDER BY date DESC, id DESC")
	return b.String(), args, keywordPushed
}

// applyKeyword re-applies the keyword predicate in Go for keywords that
// could not be pushed into the query, so all backends agree with
// Filter.Matches exactly.
func applyKeyword(expenses []core.Expense, f core.Filter, keywordPushed bool) []core.Expense {
	if f.Keyword == "" || keywordPushed {
		return expenses
	}
	return core.Filter{Keyword: f.Keyword}.Apply(expenses)
}

// escapeLike neutralizes the LIKE metacharacters so the keyword matches as
// a literal substring, mirroring Filter.Matches.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func question(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }
