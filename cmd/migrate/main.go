package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|redo|version|migrate-to")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=migrate-to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"cmd": *cmd, "dir": *dir})

	dbClient, err := db.New(cfg.DB)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.DB.DB()
	if err != nil {
		logg.Error(ctx, "failed to get sql handle", err)
		os.Exit(1)
	}

	switch *cmd {
	case "migrate-to":
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, *version)
	default:
		err = migrate.Run(ctx, sqlDB, *dir, *cmd)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration complete")
}
