package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/config"
	"github.com/abhisek/countup/internal/logging"
	"github.com/abhisek/countup/internal/progression"
	"github.com/abhisek/countup/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "countup",
	Short:         "Adaptive progression engine for a kids' counting app",
	Long:          "countup tracks a child's progress through counting and math modes (ages 3-8), decides what unlocks next, sizes problems and handles parent-approved graduation between age tiers.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COUNTUP_DB env var)")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(graduateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then COUNTUP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// runtime is what a store-backed command needs.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	db     *store.Store
	store  store.ProgressStore
	engine *progression.Engine
}

// openRuntime loads config, opens the database and builds the engine over
// a retrying store.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(cmd.Context(), dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", slog.String("path", dbPath))

	ps := store.WithRetry(db, cfg.Retry())
	engine := progression.New(catalog.Default(), ps, progression.WithLogger(logger))
	return &runtime{cfg: cfg, logger: logger, db: db, store: ps, engine: engine}, nil
}

func (r *runtime) Close() error {
	return r.db.Close()
}
