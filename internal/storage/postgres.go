package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"tally/internal/core"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS expenses (
    id          BIGSERIAL PRIMARY KEY,
    amount      DOUBLE PRECISION NOT NULL,
    category    TEXT NOT NULL,
    date        TEXT NOT NULL,
    description TEXT
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
`

// PostgresStore implements Store on PostgreSQL with the same contract as
// the sqlite backend. The schema is ensured at open time.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO expenses (amount, category, date, description) VALUES ($1, $2, $3, $4) RETURNING id`,
		e.Amount, e.Category, e.Date.String(), e.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense created",
		"id", id, "category", e.Category, "amount", e.Amount, "date", e.Date.String())
	return id, nil
}

func (s *PostgresStore) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount, category, date, description FROM expenses WHERE id = $1`, id)
	return scanExpense(row)
}

func (s *PostgresStore) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = $1, category = $2, date = $3, description = $4 WHERE id = $5`,
		e.Amount, e.Category, e.Date.String(), e.Description, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, e.ID)
}

func (s *PostgresStore) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, id)
}

func (s *PostgresStore) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	query, args, keywordPushed := listQuery(f, dollar)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, err
	}
	return applyKeyword(expenses, f, keywordPushed), nil
}

func (s *PostgresStore) ImportExpenses(ctx context.Context, expenses []core.Expense) ([]int64, error) {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO expenses (amount, category, date, description) VALUES ($1, $2, $3, $4) RETURNING id`,
			e.Amount, e.Category, e.Date.String(), e.Description).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert imported expense: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Expenses imported", "count", len(ids))
	return ids, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
