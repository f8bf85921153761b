package main

import (
	"flag"
	"log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	dir := flag.String("dir", "migrations", "directory of SQL migrations applied after auto-migration (postgres only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	if err := database.RunMigrations(db, *dir, logger); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}
	logger.Info("migrations complete")
}
