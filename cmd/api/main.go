package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fab1/auth-service/internal/api"
	"github.com/fab1/auth-service/internal/bootstrap"
	"github.com/fab1/auth-service/internal/core/service"
	"github.com/fab1/auth-service/internal/infrastructure/config"
	mongostore "github.com/fab1/auth-service/internal/infrastructure/db/mongo"
	redisstore "github.com/fab1/auth-service/internal/infrastructure/db/redis"
	"github.com/fab1/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "auth-service"})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "auth-service",
		Pretty:  cfg.Env == "development",
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	seeder := bootstrap.NewSeeder(
		mongostore.NewUserRepository(db),
		mongostore.NewRoleRepository(db),
		service.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashWorkers),
		redisstore.NewSeedLock(rdb),
		log,
	)
	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed initial data")
	}

	e := api.NewRouter(cfg, db, rdb)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
