package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tally/internal/core"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// zero-setup "memory" backend; data is gone when the process exits.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e.ID, nil
}

func (s *MemoryStore) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			return nil
		}
	}
	return fmt.Errorf("id %d: %w", e.ID, ErrNotFound)
}

func (s *MemoryStore) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) ListExpenses(_ context.Context, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := f.Apply(s.items)
	// Contract ordering: date descending, then id descending.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ImportExpenses(_ context.Context, expenses []core.Expense) ([]int64, error) {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		e.ID = s.nextID
		s.nextID++
		s.items = append(s.items, e)
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	var cats []string
	for _, e := range s.items {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	sort.Strings(cats)
	return cats, nil
}
