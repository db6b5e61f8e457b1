package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wallspace/internal/config"
	"wallspace/internal/database"
	"wallspace/internal/modules/notification"
	"wallspace/internal/modules/reservation"
	"wallspace/internal/pkg/lock"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/repository"
)

// One-shot maintenance job, meant for cron: persists completed reservations and prunes
// old notifications.
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	notificationService := notification.NewService(repository.NewNotificationRepository(db), nil, nil)
	reservationService := reservation.NewService(
		repository.NewStore(db),
		lock.NewGuard(lock.NewMemoryLocker(), nil),
		notificationService,
		reservation.Options{Policy: cfg.CapacityPolicy, Now: cfg.Now},
	)

	completed, err := reservationService.CompleteElapsed(ctx)
	if err != nil {
		logger.Fatal("completion sweep failed", zap.Error(err))
	}

	pruned, err := notificationService.Prune(ctx, cfg.NotificationRetention)
	if err != nil {
		logger.Fatal("notification prune failed", zap.Error(err))
	}

	logger.Info("reservation sweep completed",
		zap.Int64("completed", completed),
		zap.Int64("notifications_pruned", pruned))
}
