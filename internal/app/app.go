// Package app assembles the API process from its parts.
package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
)

var (
	InfraModule = fx.Provide(
		logging.New,
		newDatabase,
		newRedis,
		newAssetCleaner,
	)

	DomainModule = fx.Provide(
		integrity.New,
		newGenerator,
		store.New,
		shoppinglist.NewAggregator,
		newResolver,
		newAuthService,
		service.NewUserService,
		service.NewRecipeService,
		newDeps,
	)
)

// Options is the whole application for a loaded configuration.
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		InfraModule,
		DomainModule,
		server.Module,
	)
}

func New(cfg *config.Config) *fx.App {
	return fx.New(Options(cfg))
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

// newRedis may provide a nil client when redis is not configured.
func newRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	client, err := database.NewRedisClient(cfg, log)
	if err != nil || client == nil {
		return client, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newAssetCleaner(cfg *config.Config, log *zap.SugaredLogger) (storage.AssetCleaner, error) {
	return storage.NewAssetCleaner(context.Background(), cfg, log)
}

func newGenerator() (*shortlink.Generator, error) {
	return shortlink.NewGenerator()
}

func newResolver(s *store.Store, gen *shortlink.Generator, client *redis.Client, log *zap.SugaredLogger) *shortlink.Resolver {
	return shortlink.NewResolver(s, shortlink.NewCache(client, shortlink.DefaultCacheTTL, log), gen)
}

func newAuthService(s *store.Store, cfg *config.Config) *service.AuthService {
	return service.NewAuthService(s, cfg.JWTSecret, cfg.JWTTTL)
}

func newDeps(
	cfg *config.Config,
	log *zap.SugaredLogger,
	db *gorm.DB,
	client *redis.Client,
	s *store.Store,
	auth *service.AuthService,
	users *service.UserService,
	recipes *service.RecipeService,
) api.Deps {
	return api.Deps{
		DB:            db,
		Auth:          auth,
		Users:         users,
		Recipes:       recipes,
		Catalog:       s,
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(client, cfg.RecipeRateLimit),
		BaseURL:       cfg.BaseURL,
		Log:           log,
	}
}
