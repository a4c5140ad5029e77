// cmd/jobmap-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobmap/internal/cache"
	"jobmap/internal/common/config"
	"jobmap/internal/common/database"
	"jobmap/internal/common/logger"
	"jobmap/internal/francetravail"
	"jobmap/internal/geo"
	"jobmap/internal/normalize"
	"jobmap/internal/pipeline"
	"jobmap/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting jobmap server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Load department boundaries ---
	boundaries, err := geo.LoadDataset(cfg.Geo.DatasetPath)
	if err != nil {
		zapLog.Fatal("boundary dataset load failed", zap.Error(err))
	}
	index := geo.NewIndex(boundaries)
	zapLog.Info("Boundary dataset loaded", zap.Int("departments", index.Size()))

	// --- Init Redis with retry (optional) ---
	var results *cache.ResultCache
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Cache.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redis.Close()
			results = cache.New(redis, config.GetDuration(cfg.Cache.TTL), log)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Assemble the search pipeline ---
	var logos normalize.LogoResolver
	if cfg.Logo.Enabled {
		logos = normalize.NewClearbitResolver(cfg.Logo, log)
	}

	tokens := francetravail.NewTokenProvider(cfg.FranceTravail, log)
	fetcher := francetravail.NewFetcher(cfg.FranceTravail, log)
	normalizer := normalize.New(logos)
	search := pipeline.New(index, tokens, fetcher, normalizer, results, cfg.FranceTravail, log)

	srv := server.New(cfg.Server, cfg.App.Version, search, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("graceful shutdown failed", zap.Error(err))
		}
	}

	zapLog.Info("Server stopped")
}
