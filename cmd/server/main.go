// Command server runs the exercise tracker HTTP API.
//
// @title        Exercise Tracker API
// @version      1.0
// @description  Registers users and records timestamped exercise entries per user.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/exercisetracker/exercise-api/internal/api"
	"github.com/exercisetracker/exercise-api/internal/core/service"
	"github.com/exercisetracker/exercise-api/internal/infrastructure/db/mongo"
	"github.com/exercisetracker/exercise-api/internal/infrastructure/db/redis"
	"github.com/exercisetracker/exercise-api/internal/infrastructure/http/handlers"
	"github.com/exercisetracker/exercise-api/internal/pkg/config"
	"github.com/exercisetracker/exercise-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "exercise-api",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("database connected successfully")

	userRepo := mongo.NewUserRepository(db)
	exerciseRepo := mongo.NewExerciseRepository(db)
	if err := exerciseRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure exercise indexes")
	}

	checks := map[string]handlers.Check{"mongodb": handlers.MongoCheck(db)}
	var opts []service.Option

	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		opts = append(opts, service.WithIdempotencyStore(redis.NewIdempotencyStore(rdb)))
		checks["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	e := api.NewRouter(api.Dependencies{
		Users:     service.NewUserService(userRepo, log),
		Exercises: service.NewExerciseService(userRepo, exerciseRepo, log, opts...),
		Checks:    checks,
		Logger:    log,
		PublicDir: cfg.PublicDir,
		ViewsDir:  cfg.ViewsDir,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("your app is listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
