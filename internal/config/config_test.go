package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid sqlite config",
			config: Config{
				Port:            "8081",
				Backend:         "sqlite",
				SQLiteDBPath:    "./test.db",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "valid memory config",
			config: Config{
				Port:            "8080",
				Backend:         "memory",
				LogLevel:        "debug",
				ShutdownTimeout: 5 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:            "abc",
				Backend:         "memory",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:            "70000",
				Backend:         "memory",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid backend",
			config: Config{
				Port:            "8080",
				Backend:         "mongodb",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid backend 'mongodb'",
		},
		{
			name: "sqlite backend missing database path",
			config: Config{
				Port:            "8080",
				Backend:         "sqlite",
				SQLiteDBPath:    "",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "sqlite database path cannot be empty",
		},
		{
			name: "postgres backend missing DSN",
			config: Config{
				Port:            "8080",
				Backend:         "postgres",
				LogLevel:        "info",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "postgres DSN cannot be empty",
		},
		{
			name: "invalid log level",
			config: Config{
				Port:            "8080",
				Backend:         "memory",
				LogLevel:        "verbose",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name: "shutdown timeout too short",
			config: Config{
				Port:            "8080",
				Backend:         "memory",
				LogLevel:        "info",
				ShutdownTimeout: 100 * time.Millisecond,
			},
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr false", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	vars := []string{"PORT", "SHUTDOWN_TIMEOUT", "TALLY_BACKEND", "TALLY_DB_PATH", "TALLY_POSTGRES_DSN", "LOG_LEVEL"}
	original := make(map[string]string, len(vars))
	for _, key := range vars {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range original {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.Backend != "sqlite" {
			t.Errorf("Load() Backend = %v, want sqlite", cfg.Backend)
		}
		if cfg.SQLiteDBPath != "./data/tally.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/tally.db", cfg.SQLiteDBPath)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("TALLY_BACKEND", "memory")
		os.Setenv("LOG_LEVEL", "debug")
		defer func() {
			os.Unsetenv("PORT")
			os.Unsetenv("TALLY_BACKEND")
			os.Unsetenv("LOG_LEVEL")
		}()

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.Backend != "memory" {
			t.Errorf("Load() Backend = %v, want memory", cfg.Backend)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("toml file then environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tally.toml")
		contents := "port = \"7070\"\nbackend = \"postgres\"\npostgres_dsn = \"postgres://localhost/tally\"\nshutdown_timeout = \"15s\"\n"
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatalf("write config file: %v", err)
		}

		os.Setenv("PORT", "6060")
		defer os.Unsetenv("PORT")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "6060" {
			t.Errorf("environment must win over file: Port = %v, want 6060", cfg.Port)
		}
		if cfg.Backend != "postgres" {
			t.Errorf("Load() Backend = %v, want postgres", cfg.Backend)
		}
		if cfg.PostgresDSN != "postgres://localhost/tally" {
			t.Errorf("Load() PostgresDSN = %v", cfg.PostgresDSN)
		}
		if cfg.ShutdownTimeout != 15*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 15s", cfg.ShutdownTimeout)
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}
