// Command seed migrates the configured database and loads the sample
// structure and document.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"treelink/internal/app"
	"treelink/internal/config"
	"treelink/internal/seed"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't load samples")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.DatabaseDriver, err)
	}
	defer a.Close()

	if *dropTables {
		logger.Info("dropping all tables", "driver", a.Driver())
		if err := a.DropAll(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := a.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("schema ready", "driver", a.Driver())

	if *schemaOnly {
		return
	}

	result, err := seed.NewSeeder(a.Services.Import, a.Services.Documents, logger).Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	logger.Info("seeding complete",
		"structure_id", result.StructureID,
		"structure", result.StructureName,
		"folders", result.FoldersCount,
		"document", result.DocumentCode,
	)
}
