// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"seoul-estate-search/internal/cache"
	"seoul-estate-search/internal/common/config"
	"seoul-estate-search/internal/common/logger"
	"seoul-estate-search/internal/search"
	"seoul-estate-search/internal/seoul"
	"seoul-estate-search/internal/server"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	if cfg.Seoul.APIKey == "" {
		// Not fatal: /healthz and /metrics still work, searches will
		// return a configuration error.
		zapLog.Warn("SEOUL_API_KEY is not configured; search requests will fail")
	}

	ctx := context.Background()

	// --- Cache store ---
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		redisStore := cache.NewRedis(cfg.Cache.Redis, cfg.Cache.CacheTTL())
		err = retryWithBackoff(func() error {
			return redisStore.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		zapLog.Info("Redis cache connected successfully")
	default:
		store = cache.NewMemory(cfg.Cache.CacheTTL(), cfg.Cache.Capacity)
		zapLog.Info("In-memory cache initialized",
			zap.Duration("ttl", cfg.Cache.CacheTTL()),
			zap.Int("capacity", cfg.Cache.Capacity),
		)
	}

	// --- Upstream client + pipeline ---
	client := seoul.NewClient(
		cfg.Seoul.BaseURL,
		cfg.Seoul.APIKey,
		config.GetDuration(cfg.Seoul.Timeout),
		cfg.Seoul.MaxParallel,
		log,
	)
	svc := search.New(client, store, cfg.Seoul.MaxRecords, cfg.Seoul.ChunkSize, log)
	srv := server.New(svc, client, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
