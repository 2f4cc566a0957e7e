// Package cli implements the terminal front-end: cobra commands over the
// shared expense service, with lipgloss-rendered tables.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

var (
	flagConfig   string
	flagBackend  string
	flagDBPath   string
	flagDSN      string
	flagLogLevel string

	// Shared filter flags, registered on every command that reads the
	// collection.
	flagStart    string
	flagEnd      string
	flagCategory string
	flagMin      string
	flagMax      string
	flagSearch   string

	service *services.ExpenseService
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "Personal expense tracker",
	Long:          "Track expenses, filter them, and report totals, statistics and outliers.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if service == nil {
			return nil
		}
		return service.Close()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Postgres connection string")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// setup loads configuration, opens the store and builds the service.
func setup(_ *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDBPath != "" {
		cfg.SQLiteDBPath = flagDBPath
	}
	if flagDSN != "" {
		cfg.PostgresDSN = flagDSN
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.Setup(log.Options{Level: cfg.LogLevel, Format: log.FormatText, Output: os.Stderr})

	store, err := storage.Open(cfg.StorageConfig(), log.ForComponent(logger, "storage"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	service = services.NewExpenseService(store)
	return nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagStart, "start", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "Latest date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Category (\"all\" means no constraint)")
	cmd.Flags().StringVar(&flagMin, "min", "", "Minimum amount")
	cmd.Flags().StringVar(&flagMax, "max", "", "Maximum amount")
	cmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Keyword to match in descriptions")
}

func filterFromFlags() (core.Filter, error) {
	return core.ParseFilter(flagStart, flagEnd, flagCategory, flagMin, flagMax, flagSearch)
}
