package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"wallspace/internal/config"
	"wallspace/internal/database"
	"wallspace/internal/pkg/lock"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	logger.Set(logger.NewLogger(cfg.AppEnv))
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r := newRouter(cfg, db, newLocker(cfg), reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("capacity_policy", string(cfg.CapacityPolicy)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newLocker falls back to the in-process locker when Redis is configured but unreachable
// outside prod. A single instance is still serialized correctly by it.
func newLocker(cfg *config.Config) lock.Locker {
	if cfg.LockBackend != config.LockBackendRedis {
		return lock.NewMemoryLocker()
	}
	client := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if client == nil {
		if cfg.IsProdLike() {
			logger.Fatal("redis unreachable", zap.String("addr", cfg.RedisAddr))
		}
		logger.Warn("redis unreachable, using in-process space locks", zap.String("addr", cfg.RedisAddr))
		return lock.NewMemoryLocker()
	}
	return lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockRetries, cfg.LockRetryDelay)
}
