package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"workflow/internal/config"
	"workflow/internal/database"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

type migrateFunc func(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error

// withDatabase loads configuration, opens the database and hands it to fn
func withDatabase(fn migrateFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if path := cmd.String("config"); path != "" {
			if err := os.Setenv("CONFIG_FILE", path); err != nil {
				return err
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.SupabaseDBURL == "" {
			return fmt.Errorf("SUPABASE_DB_URL is required")
		}

		prefix := cfg.TablePrefix
		if cmd.IsSet("prefix") {
			prefix = cmd.String("prefix")
		}

		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

		db, err := database.Open(ctx, cfg.SupabaseDBURL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		logger.Info("migrating", "environment", cfg.Environment, "table_prefix", prefix)
		return fn(ctx, db, prefix, logger)
	}
}

func main() {
	// Missing .env is fine in deployed environments
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back the workflow database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Table prefix override (defaults to the environment's prefix)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: withDatabase(database.Up),
			},
			{
				Name:   "down",
				Usage:  "Roll back the most recent migration",
				Action: withDatabase(database.Down),
			},
			{
				Name:   "status",
				Usage:  "Show which migrations have been applied",
				Action: withDatabase(database.Status),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
