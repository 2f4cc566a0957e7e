// Package config assembles runtime configuration from defaults, an
// optional TOML file, and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tally/internal/storage"
)

type Config struct {
	// HTTP server
	Port            string        `toml:"port"`
	ShutdownTimeout time.Duration `toml:"-"`

	// Storage backend: sqlite, postgres or memory.
	Backend      string `toml:"backend"`
	SQLiteDBPath string `toml:"sqlite_db_path"`
	PostgresDSN  string `toml:"postgres_dsn"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// fileConfig mirrors Config for TOML decoding; durations come in as
// strings so config files can write "10s".
type fileConfig struct {
	Port            string `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	Backend         string `toml:"backend"`
	SQLiteDBPath    string `toml:"sqlite_db_path"`
	PostgresDSN     string `toml:"postgres_dsn"`
	LogLevel        string `toml:"log_level"`
}

// Load builds the configuration. path names an optional TOML file; an
// empty path (or a missing file at the default location) is not an
// error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:            "8081",
		ShutdownTimeout: 10 * time.Second,
		Backend:         string(storage.SQLiteBackend),
		SQLiteDBPath:    "./data/tally.db",
		LogLevel:        "info",
	}

	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Backend = getEnv("TALLY_BACKEND", cfg.Backend)
	cfg.SQLiteDBPath = getEnv("TALLY_DB_PATH", cfg.SQLiteDBPath)
	cfg.PostgresDSN = getEnv("TALLY_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = "tally.toml"
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: invalid shutdown_timeout: %w", path, err)
		}
		c.ShutdownTimeout = d
	}
	if fc.Backend != "" {
		c.Backend = fc.Backend
	}
	if fc.SQLiteDBPath != "" {
		c.SQLiteDBPath = fc.SQLiteDBPath
	}
	if fc.PostgresDSN != "" {
		c.PostgresDSN = fc.PostgresDSN
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// StorageConfig converts the loaded settings into the storage layer's
// open parameters.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:      storage.Backend(c.Backend),
		SQLiteDBPath: c.SQLiteDBPath,
		PostgresDSN:  c.PostgresDSN,
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	backend := storage.Backend(c.Backend)
	if !backend.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid backend '%s': must be one of [memory postgres sqlite]", c.Backend))
	}

	if backend == storage.SQLiteBackend {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "sqlite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create sqlite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if backend == storage.PostgresBackend && c.PostgresDSN == "" {
		errs = append(errs, "postgres DSN cannot be empty when using the postgres backend")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if c.ShutdownTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid shutdown timeout %v: must be at most 1 minute", c.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
