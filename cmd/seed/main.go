package main

import (
	"context"
	"flag"
	"log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/seed"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
)

func main() {
	fixturesPath := flag.String("fixtures", "", "JSON file with tags and ingredients to create")
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

	var fixtures *seed.Fixtures
	if *fixturesPath != "" {
		if fixtures, err = seed.LoadFixtures(*fixturesPath); err != nil {
			logger.Fatalw("failed to load fixtures", "error", err)
		}
	}

	gen, err := shortlink.NewGenerator()
	if err != nil {
		logger.Fatalw("failed to build short link generator", "error", err)
	}
	s := store.New(db, integrity.New(), gen, storage.Nop{}, logger)
	auth := service.NewAuthService(s, cfg.JWTSecret, cfg.JWTTTL)

	if _, err := seed.New(s, auth, logger).Run(context.Background(), seed.AdminFromEnv(), fixtures); err != nil {
		logger.Fatalw("seed failed", "error", err)
	}
}
