// @title Praktikmål API
// @version 1.0
// @description Backend for the apprenticeship goal tracker.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"praktikmaal_backend/internal/app"
	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/pkg/configwatcher"
	"praktikmaal_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration complete, exiting")
		return
	}

	// LoadConfig publishes each successful load through config.Live, so the
	// watcher only has to announce the swap.
	go configwatcher.WatchConfig("configs/config.yaml", func(*config.Config) {
		logger.Log.Info("configuration reloaded")
	})

	application.Run()
}
