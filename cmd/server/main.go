package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/listora/realty-api/internal/config"
	"github.com/listora/realty-api/internal/database"
	"github.com/listora/realty-api/internal/handler"
	"github.com/listora/realty-api/internal/middleware"
	"github.com/listora/realty-api/internal/queue"
	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/internal/router"
	"github.com/listora/realty-api/internal/service"
	"github.com/listora/realty-api/pkg/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(cfg.Env)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("schema migration failed")
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	features := repository.NewFeatureRepo(db)

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, caching and rate limiting disabled")
	}

	deps := router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens, logger),
		Listings:  handler.NewListingHandler(listings, service.NewPublisher(logger), logger),
		Browse:    handler.NewBrowseHandler(listings, logger),
		Features:  handler.NewFeatureHandler(features, logger),
		Users:     handler.NewUserHandler(users, logger),
		Uploads:   handler.NewUploadHandler(cfg.UploadDir, logger),
		JWTSecret: cfg.JWTSecret,
	}
	if rdb != nil {
		deps.CacheMW = middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
		deps.RateLimitMW = middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	router.Register(e, deps)

	// Background consumer mirrors listing changes to logs/listings.log.
	go func() {
		if err := queue.StartListingConsumer(logger); err != nil {
			logger.Error().Err(err).Msg("listing consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
