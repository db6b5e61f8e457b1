package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/pkg/metrics"
)

// Guard runs work while holding a space's lock. Every write to a space's reservations
// or override flags goes through it.
type Guard struct {
	locker  Locker
	metrics *metrics.Metrics
}

func NewGuard(locker Locker, m *metrics.Metrics) *Guard {
	return &Guard{locker: locker, metrics: m}
}

// WithSpace holds the space lock for the duration of fn.
// A backend that gives up yields ErrConcurrencyConflict; an expired ctx yields ErrTimeout.
func (g *Guard) WithSpace(ctx context.Context, spaceID int64, fn func() error) error {
	start := time.Now()
	lk, err := g.locker.Acquire(ctx, SpaceKey(spaceID))
	if err != nil {
		g.metrics.LockWait(g.locker.Backend(), "failed", time.Since(start))
		switch {
		case errors.Is(err, ErrNotAcquired):
			return fmt.Errorf("%w: space %d is locked by another request", domain.ErrConcurrencyConflict, spaceID)
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w: waiting for space %d", domain.ErrTimeout, spaceID)
		default:
			return err
		}
	}
	g.metrics.LockWait(g.locker.Backend(), "acquired", time.Since(start))

	defer func() {
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("space lock release failed", zap.Int64("space_id", spaceID), zap.Error(err))
		}
	}()
	return fn()
}
