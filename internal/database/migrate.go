// Package database applies the schema migrations embedded in the binary.
//
// Every table name is prefixed per environment (dev_, test_ or none), so the
// SQL files use ${TABLE_PREFIX} with goose ENVSUB and each prefix keeps its
// own version table.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects through database/sql, which goose requires
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// VersionTable returns the goose bookkeeping table for a prefix
func VersionTable(prefix string) string {
	return prefix + "goose_db_version"
}

func setupGoose(prefix string, logger *slog.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	goose.SetTableName(VersionTable(prefix))
	goose.SetLogger(gooseLogger{logger: logger})

	// Read by the ENVSUB directive in every migration
	if err := os.Setenv("TABLE_PREFIX", prefix); err != nil {
		return fmt.Errorf("set TABLE_PREFIX: %w", err)
	}
	return nil
}

// Up applies all pending migrations
func Up(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error {
	if err := setupGoose(prefix, logger); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations completed", "table_prefix", prefix)
	return nil
}

// Down rolls back the most recent migration
func Down(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error {
	if err := setupGoose(prefix, logger); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	logger.Info("rolled back one migration", "table_prefix", prefix)
	return nil
}

// Status logs the applied state of every migration
func Status(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error {
	if err := setupGoose(prefix, logger); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through slog
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
