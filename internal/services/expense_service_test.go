package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tally/internal/core"
	"tally/internal/exchange"
	"tally/internal/storage"
)

func newTestService(t *testing.T) *ExpenseService {
	t.Helper()
	svc := NewExpenseService(storage.NewMemoryStore())
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close service: %v", err)
		}
	})
	return svc
}

func seed(t *testing.T, svc *ExpenseService, exps ...core.Expense) {
	t.Helper()
	ctx := context.Background()
	for _, e := range exps {
		if _, err := svc.CreateExpense(ctx, e); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}
}

func TestServiceCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, core.Expense{
		Amount:   12.5,
		Category: "Food",
		Date:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	created.Amount = 15
	created.Description = "updated"
	if err := svc.UpdateExpense(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetExpense(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 15 || got.Description != "updated" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := svc.DeleteExpense(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetExpense(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestServiceReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		report, err := svc.Report(ctx, core.Filter{})
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Summary != nil {
			t.Fatalf("expected nil summary for empty store, got %+v", report.Summary)
		}
		if len(report.Expenses) != 0 || len(report.OutlierIDs) != 0 {
			t.Fatalf("expected empty report, got %+v", report)
		}
	})

	seed(t, svc,
		core.Expense{Amount: 10, Category: "Food", Date: core.NewDate(2024, 1, 1)},
		core.Expense{Amount: 12, Category: "Food", Date: core.NewDate(2024, 1, 2)},
		core.Expense{Amount: 500, Category: "Rent", Date: core.NewDate(2024, 1, 3)},
	)

	report, err := svc.Report(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Summary == nil {
		t.Fatal("expected summary for populated store")
	}
	if report.Summary.Count != 3 || report.Summary.Total != 522 {
		t.Fatalf("summary mismatch: %+v", report.Summary)
	}

	// The outlier set must be exactly what the report's own summary
	// implies, never a separately recomputed baseline.
	want := core.OutlierIDs(report.Expenses, *report.Summary)
	if len(report.OutlierIDs) != len(want) {
		t.Fatalf("outlier ids %v, want %v", report.OutlierIDs, want)
	}
	for i := range want {
		if report.OutlierIDs[i] != want[i] {
			t.Fatalf("outlier ids %v, want %v", report.OutlierIDs, want)
		}
	}

	t.Run("filtered", func(t *testing.T) {
		report, err := svc.Report(ctx, core.Filter{Category: "Food"})
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Summary == nil || report.Summary.Count != 2 || report.Summary.Total != 22 {
			t.Fatalf("filtered summary mismatch: %+v", report.Summary)
		}
	})
}

func TestServicePeriodReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed(t, svc,
		core.Expense{Amount: 10, Category: "Food", Date: core.NewDate(2024, 1, 5)},
		core.Expense{Amount: 20, Category: "Food", Date: core.NewDate(2024, 1, 20)},
		core.Expense{Amount: 30, Category: "Rent", Date: core.NewDate(2024, 2, 1)},
	)

	totals, err := svc.PeriodReport(ctx, core.Filter{}, core.Monthly)
	if err != nil {
		t.Fatalf("period report: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %v", totals)
	}
	if totals[0].Period != "2024-01" || totals[0].Total != 30 {
		t.Fatalf("first bucket mismatch: %+v", totals[0])
	}
	if totals[1].Period != "2024-02" || totals[1].Total != 30 {
		t.Fatalf("second bucket mismatch: %+v", totals[1])
	}
}

func TestServiceCategoryReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed(t, svc,
		core.Expense{Amount: 10, Category: "Food", Date: core.NewDate(2024, 1, 5)},
		core.Expense{Amount: 12, Category: "Food", Date: core.NewDate(2024, 1, 10)},
		core.Expense{Amount: 500, Category: "Rent", Date: core.NewDate(2024, 2, 1)},
	)

	totals, err := svc.CategoryReport(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("category report: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 category buckets, got %v", totals)
	}
	if totals[0].Category != "Rent" || totals[0].Total != 500 {
		t.Fatalf("first bucket mismatch: %+v", totals[0])
	}
	if totals[1].Category != "Food" || totals[1].Total != 22 {
		t.Fatalf("second bucket mismatch: %+v", totals[1])
	}

	// The filter narrows the buckets like any other read.
	filtered, err := svc.CategoryReport(ctx, core.Filter{Category: "Food"})
	if err != nil {
		t.Fatalf("filtered category report: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Category != "Food" {
		t.Fatalf("filtered buckets mismatch: %+v", filtered)
	}
}

func TestServiceExportImportRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed(t, svc,
		core.Expense{Amount: 10.5, Category: "Food", Date: core.NewDate(2024, 1, 1), Description: "lunch"},
		core.Expense{Amount: 500, Category: "Rent", Date: core.NewDate(2024, 1, 2)},
	)

	var buf bytes.Buffer
	exported, err := svc.Export(ctx, core.Filter{}, exchange.FormatCSV, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported != 2 {
		t.Fatalf("exported %d rows, want 2", exported)
	}

	imported, err := svc.Import(ctx, &buf, exchange.FormatCSV)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != exported {
		t.Fatalf("imported %d rows, want %d", imported, exported)
	}

	// Imports append: the store now holds originals plus copies.
	report, err := svc.Report(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Summary.Count != 4 {
		t.Fatalf("expected 4 records after re-import, got %d", report.Summary.Count)
	}
	if report.Summary.Total != 2*510.5 {
		t.Fatalf("expected doubled total, got %v", report.Summary.Total)
	}
}

func TestServiceImportRejectsBadFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	in := bytes.NewBufferString("Amount,Category,Date\n10,Food,2024-01-01\nbad,Food,2024-01-02\n")
	if _, err := svc.Import(ctx, in, exchange.FormatCSV); err == nil {
		t.Fatal("expected import error")
	} else if _, ok := exchange.AsImportError(err); !ok {
		t.Fatalf("expected ImportError, got %v", err)
	}

	report, err := svc.Report(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Expenses) != 0 {
		t.Fatalf("bad import must commit nothing, store has %d records", len(report.Expenses))
	}
}

func TestServiceCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed(t, svc,
		core.Expense{Amount: 1, Category: "Transport", Date: core.NewDate(2024, 1, 1)},
		core.Expense{Amount: 2, Category: "Food", Date: core.NewDate(2024, 1, 2)},
		core.Expense{Amount: 3, Category: "Food", Date: core.NewDate(2024, 1, 3)},
	)

	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Food" || cats[1] != "Transport" {
		t.Fatalf("expected sorted distinct categories, got %v", cats)
	}
}
