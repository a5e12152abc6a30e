// Package cmd wires the companion CLI: a chat client for the hosted
// assistant plus local journal, mood, streak, and badge tracking.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mindhaven/go-companion-core/internal/config"
	"github.com/mindhaven/go-companion-core/internal/observability"
	"github.com/mindhaven/go-companion-core/internal/repo"
	"github.com/mindhaven/go-companion-core/internal/services"
	"github.com/mindhaven/go-companion-core/internal/store"
	"github.com/mindhaven/go-companion-core/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	cfg          config.Config
	otelShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Mental health companion: assistant chat and daily progress tracking",
	Long: `companion is a local-first mental health companion.

It connects to a hosted assistant over a websocket for supportive
conversation, and keeps journal entries, daily mood check-ins, streaks,
and badges on this machine. Configuration is read from environment
variables (a .env file is honored when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; env vars win either way.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		sysutil.SetLogLevel(cfg.LogLevel)
		zlog.Logger = sysutil.NewLogger(os.Stderr, cfg.LogPretty)

		otelShutdown, err = observability.SetupOTel(cmd.Context(), cfg.OTEL, version)
		if err != nil {
			return fmt.Errorf("otel setup: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if otelShutdown != nil {
			_ = otelShutdown(cmd.Context())
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// openProgress opens the entry database and slot store and builds the
// progress service over them. The returned closer releases both.
func openProgress(ctx context.Context) (*services.ProgressService, func(), error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	var opts []store.StoreOption
	if cfg.Store.Backend == "badger" {
		opts = append(opts, store.WithBadgerPath(cfg.Store.Path))
	}
	slots, err := store.NewStore(store.StoreType(cfg.Store.Backend), opts...)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("open slot store: %w", err)
	}

	svc := services.NewProgressService(db, slots)
	closer := func() {
		_ = slots.Close()
		closeDB()
	}
	return svc, closer, nil
}
