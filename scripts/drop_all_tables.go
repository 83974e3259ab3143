// drop_all_tables removes every table of one environment, including the
// goose version table, so `migrate up` starts from scratch.
//
//	go run scripts/drop_all_tables.go
package main

import (
	"context"
	"fmt"
	"log"

	"workflow/internal/config"
	"workflow/internal/database"
	"workflow/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SupabaseDBURL == "" {
		log.Fatal("SUPABASE_DB_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("Refusing to drop tables in the prod environment")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	tables := postgres.NewTableNames(cfg.TablePrefix)
	for _, table := range []string{
		tables.Activities,
		tables.Scripts,
		tables.Events,
		tables.Projects,
		tables.Tasks,
		tables.Canvas,
		tables.Items,
		database.VersionTable(cfg.TablePrefix),
	} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			log.Fatalf("Failed to drop %s: %v", table, err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %q)\n", cfg.TablePrefix)
}
