package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wth_backend/internal/app/di"
	"wth_backend/internal/app/router"
	"wth_backend/internal/config"
	authadapters "wth_backend/internal/feature/auth/adapters"
	infradb "wth_backend/internal/platform/db"
	jwtmw "wth_backend/internal/platform/jwt"
	"wth_backend/internal/platform/logging"
	infraredis "wth_backend/internal/platform/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Token service
	tokens, err := jwtmw.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		logger.Fatal("token service", zap.Error(err))
	}
	logger.Info("token service ready", zap.Duration("expiration", tokens.Expiration()))

	// db
	db, err := infradb.Open(cfg.DB, logger, &authadapters.UserModel{})
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("db pool", zap.Error(err))
	}
	defer sqlDB.Close()

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisAddr != "" {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger); err != nil {
			logger.Warn("redis unavailable, rate limiting per process", zap.Error(err))
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Error("failed to close redis client", zap.Error(err))
				}
			}()
		}
	}

	media, err := di.NewMediaStore(ctx, cfg.Media, logger)
	if err != nil {
		logger.Fatal("media store", zap.Error(err))
	}

	engine := router.NewRouter(router.Deps{
		Auth:           di.NewAuthHandler(cfg, db, tokens, media, logger),
		Gate:           jwtmw.NewGate(tokens),
		Limiter:        di.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow, logger),
		Logger:         logger,
		CORSEnabled:    cfg.CORSEnabled,
		Store:          sqlDB,
		MaxUploadBytes: cfg.Media.MaxAvatarSize,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.IOTimeout,
		WriteTimeout: cfg.IOTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
