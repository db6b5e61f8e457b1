package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/logger"
)

// SpaceGuard serializes writes per space. *lock.Guard satisfies it.
type SpaceGuard interface {
	WithSpace(ctx context.Context, spaceID int64, fn func() error) error
}

type Service struct {
	store   domain.Store
	guard   SpaceGuard
	timeout time.Duration
}

func NewService(store domain.Store, guard SpaceGuard, timeout time.Duration) *Service {
	return &Service{store: store, guard: guard, timeout: timeout}
}

/* ---------- LOCATIONS ---------- */

func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.store.ListLocations(ctx)
	return list, domain.ClassifyContextError(ctx, err)
}

func (s *Service) CreateLocation(ctx context.Context, actor domain.Actor, req CreateLocationRequest) (*domain.Location, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if actor.Role != domain.RoleManager && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only managers own locations", domain.ErrForbidden)
	}

	loc := &domain.Location{
		ManagerID: actor.UserID,
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Tags:      req.Tags,
	}
	if err := s.store.CreateLocation(ctx, loc); err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	return loc, nil
}

/* ---------- SPACES ---------- */

// GetSpace returns the space with its location attached.
func (s *Service) GetSpace(ctx context.Context, id int64) (*domain.Space, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	sp, err := s.store.GetSpace(ctx, id, false)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	loc, err := s.store.GetLocation(ctx, sp.LocationID)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	sp.Location = loc
	return sp, nil
}

func (s *Service) ListSpaces(ctx context.Context, locationID int64) ([]domain.Space, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.GetLocation(ctx, locationID); err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	list, err := s.store.ListSpacesByLocation(ctx, locationID)
	return list, domain.ClassifyContextError(ctx, err)
}

func (s *Service) CreateSpace(ctx context.Context, actor domain.Actor, locationID int64, req CreateSpaceRequest) (*domain.Space, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	loc, err := s.store.GetLocation(ctx, locationID)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	if err := canManage(actor, loc); err != nil {
		return nil, err
	}

	sp := &domain.Space{
		LocationID:  loc.ID,
		Name:        strings.TrimSpace(req.Name),
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
		PricePerDay: req.PricePerDay,
		MaxCapacity: req.MaxCapacity,
		IsAvailable: true,
	}
	if err := s.store.CreateSpace(ctx, sp); err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	return sp, nil
}

/* ---------- OVERRIDES ---------- */

// SetManuallyClosed flips the manual closure flag. Existing reservations are untouched;
// new requests and confirmations are refused while the space is closed.
func (s *Service) SetManuallyClosed(ctx context.Context, actor domain.Actor, spaceID int64, closed bool) (*domain.Space, error) {
	return s.updateFlags(ctx, actor, spaceID, func(sp *domain.Space) {
		sp.ManuallyClosed = closed
	})
}

func (s *Service) SetActive(ctx context.Context, actor domain.Actor, spaceID int64, active bool) (*domain.Space, error) {
	return s.updateFlags(ctx, actor, spaceID, func(sp *domain.Space) {
		sp.IsAvailable = active
	})
}

// updateFlags takes the same space lock as booking, so an override never interleaves
// with a count-then-insert in flight.
func (s *Service) updateFlags(ctx context.Context, actor domain.Actor, spaceID int64, apply func(*domain.Space)) (*domain.Space, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	var updated *domain.Space
	err := s.guard.WithSpace(ctx, spaceID, func() error {
		return s.store.InTx(ctx, func(tx domain.Store) error {
			sp, err := tx.GetSpace(ctx, spaceID, true)
			if err != nil {
				return err
			}
			loc, err := tx.GetLocation(ctx, sp.LocationID)
			if err != nil {
				return err
			}
			if err := canManage(actor, loc); err != nil {
				return err
			}

			apply(sp)
			if err := tx.UpdateSpaceFlags(ctx, sp.ID, sp.ManuallyClosed, sp.IsAvailable); err != nil {
				return err
			}
			updated = sp
			return nil
		})
	})
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}

	logger.Info("space overrides updated",
		zap.Int64("space_id", updated.ID),
		zap.Bool("manually_closed", updated.ManuallyClosed),
		zap.Bool("is_available", updated.IsAvailable),
		zap.Int64("actor_id", actor.UserID))
	return updated, nil
}

func canManage(actor domain.Actor, loc *domain.Location) error {
	if actor.IsAdmin() || actor.UserID == loc.ManagerID {
		return nil
	}
	return fmt.Errorf("%w: user %d does not manage location %d", domain.ErrForbidden, actor.UserID, loc.ID)
}
