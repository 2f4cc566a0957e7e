package storage

import (
	"fmt"
	"log/slog"
)

const (
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
	MemoryBackend   Backend = "memory"
)

type (
	// Backend names a storage implementation.
	Backend string

	// Config carries the settings the factory needs to open a backend.
	Config struct {
		Backend      Backend
		SQLiteDBPath string
		PostgresDSN  string
	}
)

// IsValid reports whether the backend name is one the factory can open.
func (b Backend) IsValid() bool {
	switch b {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	}
	return false
}

// Open constructs the configured Store. The caller owns the returned store
// and must Close it.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Backend.IsValid() {
		return nil, fmt.Errorf("invalid storage backend: %q", cfg.Backend)
	}

	switch cfg.Backend {
	case PostgresBackend:
		store, err := NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized postgres store")
		return store, nil
	case MemoryBackend:
		logger.Info("Initialized memory store")
		return NewMemoryStore(), nil
	default:
		store, err := NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite store", "db_path", cfg.SQLiteDBPath)
		return store, nil
	}
}
