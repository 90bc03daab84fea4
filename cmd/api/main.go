// Command api runs the blog HTTP API.
//
// Startup: configuration, logger, MongoDB (with indexes), the optional Redis
// post cache, then the HTTP server. SIGINT or SIGTERM drains in-flight
// requests for up to ten seconds before the clients are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pressroom/blog-api/internal/api"
	"github.com/pressroom/blog-api/internal/api/handler"
	"github.com/pressroom/blog-api/internal/api/middleware"
	"github.com/pressroom/blog-api/internal/core/ports"
	"github.com/pressroom/blog-api/internal/core/service"
	mongostore "github.com/pressroom/blog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/pressroom/blog-api/internal/infrastructure/db/redis"
	"github.com/pressroom/blog-api/internal/infrastructure/http/handlers"
	"github.com/pressroom/blog-api/internal/pkg/config"
	"github.com/pressroom/blog-api/pkg/logger"
)

const (
	serviceName     = "blog-api"
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title        Blog API
// @version      1.0
// @description  Users register and log in with a session cookie, then publish, edit and delete their own posts.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	// ── Logger ───────────────────────────────────────────────────────────
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("configuration loaded")

	startupCtx, startupCancel := context.WithTimeout(ctx, startupTimeout)
	defer startupCancel()

	// ── MongoDB ──────────────────────────────────────────────────────────
	mongoClient, db, err := mongostore.Connect(startupCtx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	must(log, err, "connect to mongo")
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	userRepo := mongostore.NewUserRepository(db)
	postRepo := mongostore.NewPostRepository(db)
	must(log, mongostore.EnsureIndexes(startupCtx, userRepo, postRepo), "ensure mongo indexes")

	checks := map[string]handlers.Check{"mongo": handlers.MongoCheck(db)}

	// ── Redis (optional post cache) ──────────────────────────────────────
	var cache ports.PostCache
	if rdb := connectRedis(startupCtx, cfg.Redis, log); rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		}()
		cache = redisstore.NewPostCache(rdb, cfg.Redis.CacheTTL, logger.Component("post_cache"))
		checks["redis"] = handlers.RedisCheck(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, logger.Component("auth"))
	postService := service.NewPostService(postRepo, cache, logger.Component("posts"))

	// ── HTTP server ──────────────────────────────────────────────────────
	ipExtractor, err := middleware.ClientIPExtractor(cfg.TrustedProxies)
	must(log, err, "configure client ip extraction")

	e := api.NewRouter(api.Dependencies{
		Log:    logger.Component("http"),
		Auth:   authService,
		Posts:  postService,
		Tokens: tokens,
		Cookie: handler.CookieConfig{
			Secure: !cfg.IsDevelopment(),
			MaxAge: tokens.TTL(),
		},
		Health:        handlers.NewHealthDependenciesHandler(checks),
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		IPExtractor:   ipExtractor,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("server stopped")
}

// connectRedis returns nil when the cache is not configured or unreachable.
// The API serves every request from MongoDB in that case.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *goredis.Client {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, post cache disabled")
		return nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Addr, DB: cfg.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, post cache disabled")
		return nil
	}
	return rdb
}

// must aborts startup on error. Only used during wiring.
func must(log zerolog.Logger, err error, step string) {
	if err != nil {
		log.Fatal().Err(err).Str("step", step).Msg("startup failure")
	}
}
