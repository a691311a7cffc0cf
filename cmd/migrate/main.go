package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/telemetry"
)

func main() {
	cfg := config.MustLoad()
	if err := telemetry.Init(cfg.LogJSON, cfg.LogDebug); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultCLIOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
}
