package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/carbonlabs/carbon-backend/pkg/config"
	"github.com/carbonlabs/carbon-backend/pkg/db"
	"github.com/carbonlabs/carbon-backend/pkg/logger"
	"github.com/carbonlabs/carbon-backend/pkg/migrate"
)

// Usage: migrate <goose-command> [args], e.g. "migrate up", "migrate status".
func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	command := "up"
	args := []string{}
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	client, err := db.New(ctx, cfg.DB, cfg.App.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to extract sql.DB", err)
		os.Exit(1)
	}

	dialect := "postgres"
	if cfg.App.UseSQLite {
		dialect = "sqlite3"
	}

	ctx = logg.WithFields(ctx, map[string]any{"command": command, "dir": migrate.DefaultDir})
	if err := migrate.Run(ctx, sqlDB, dialect, migrate.DefaultDir, command, args...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "migration complete")
}
