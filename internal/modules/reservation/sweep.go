package reservation

import (
	"context"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/logger"
)

// CompleteElapsed persists "completed" for confirmed reservations that ended before today.
// Reads already derive the status, so this only keeps stored rows in step. Safe to rerun.
func (s *Service) CompleteElapsed(ctx context.Context) (int64, error) {
	today := s.today()
	n, err := s.store.CompleteElapsedReservations(ctx, today)
	if err != nil {
		err = domain.ClassifyContextError(ctx, err)
		logger.Error("complete elapsed reservations failed", zap.Error(err))
		return 0, err
	}
	s.metrics.Transitions("complete", "ok", n)
	logger.Info("elapsed reservations completed",
		zap.Int64("count", n),
		zap.String("today", today.String()))
	return n, nil
}
