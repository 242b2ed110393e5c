package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate status

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/storage/db"
	"resumeforge/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	logger, err := telemetry.Init(telemetry.Options{JSON: cfg.LogJSON, Debug: cfg.LogDebug})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultMigrateOptions())
	if err != nil {
		logger.Error("failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if len(os.Args) > 1 && os.Args[1] == "status" {
		if err := db.MigrationStatus(ctx, sqlDB); err != nil {
			logger.Error("failed to read migration status", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("migrations applied")
}
