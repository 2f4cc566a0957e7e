// Package services orchestrates the expense store and the core engines so
// every front-end shares one computation path for filtering, statistics,
// outlier detection, aggregation, and import/export.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"tally/internal/core"
	"tally/internal/exchange"
	"tally/internal/storage"
)

// Report is the full view of a filtered collection: the records, the KPI
// summary, and the outlier set derived from that exact summary. Building
// all three in one call is what guarantees the single-source-of-truth rule
// for mean and standard deviation.
type Report struct {
	Expenses   []core.Expense `json:"expenses"`
	Summary    *core.Summary  `json:"summary"` // nil when the collection is empty
	OutlierIDs []int64        `json:"outlier_ids"`
}

// ExpenseService exposes every core operation over an explicit store
// handle; it holds no state of its own beyond that handle.
type ExpenseService struct {
	store storage.Store
}

func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense validates and stores a new record, returning it with the
// assigned id.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// UpdateExpense atomically replaces every field of the identified record
// except its id.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// Report queries the store with the filter and computes summary and
// outliers over the result. Nothing is cached: edits, imports, or a new
// filter simply produce a fresh report.
func (s *ExpenseService) Report(ctx context.Context, f core.Filter) (Report, error) {
	expenses, err := s.store.ListExpenses(ctx, f)
	if err != nil {
		return Report{}, fmt.Errorf("list expenses: %w", err)
	}

	report := Report{Expenses: expenses, OutlierIDs: []int64{}}
	summary, ok := core.Summarize(expenses)
	if ok {
		report.Summary = &summary
		report.OutlierIDs = core.OutlierIDs(expenses, summary)
	}
	return report, nil
}

// PeriodReport aggregates the filtered collection by calendar period.
func (s *ExpenseService) PeriodReport(ctx context.Context, f core.Filter, g core.Granularity) ([]core.PeriodTotal, error) {
	expenses, err := s.store.ListExpenses(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return core.AggregateByPeriod(expenses, g), nil
}

// CategoryReport sums the filtered collection per category, biggest
// spending category first.
func (s *ExpenseService) CategoryReport(ctx context.Context, f core.Filter) ([]core.CategoryTotal, error) {
	expenses, err := s.store.ListExpenses(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return core.AggregateByCategory(expenses), nil
}

// Export writes the filtered collection to w in the given format and
// returns the number of exported rows. The store is only read.
func (s *ExpenseService) Export(ctx context.Context, f core.Filter, format exchange.Format, w io.Writer) (int, error) {
	expenses, err := s.store.ListExpenses(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	if err := exchange.Write(w, format, expenses); err != nil {
		return 0, fmt.Errorf("export expenses: %w", err)
	}
	slog.InfoContext(ctx, "Expenses exported", "rows", len(expenses), "format", string(format))
	return len(expenses), nil
}

// Import parses an interchange file and appends every row to the store as
// a brand-new record. The file is an all-or-nothing unit: any invalid row
// rejects the import with a per-row error report and commits nothing.
func (s *ExpenseService) Import(ctx context.Context, r io.Reader, format exchange.Format) (int, error) {
	expenses, err := exchange.Read(r, format)
	if err != nil {
		return 0, fmt.Errorf("parse import file: %w", err)
	}

	ids, err := s.store.ImportExpenses(ctx, expenses)
	if err != nil {
		return 0, fmt.Errorf("store imported expenses: %w", err)
	}
	slog.InfoContext(ctx, "Expenses imported", "rows", len(ids), "format", string(format))
	return len(ids), nil
}

// Close releases the underlying store.
func (s *ExpenseService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
