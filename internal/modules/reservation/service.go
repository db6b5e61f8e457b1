package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/modules/availability"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/pkg/metrics"
)

const notifyTimeout = 3 * time.Second

// SpaceGuard serializes writes per space. *lock.Guard satisfies it.
type SpaceGuard interface {
	WithSpace(ctx context.Context, spaceID int64, fn func() error) error
}

type Options struct {
	// Policy decides which statuses hold a slot when a request is admitted.
	// Confirmation always re-checks against confirmed reservations only.
	Policy  domain.CapacityPolicy
	Timeout time.Duration
	Now     func() time.Time
	Metrics *metrics.Metrics
}

type Service struct {
	store    domain.Store
	guard    SpaceGuard
	notifier domain.Notifier
	metrics  *metrics.Metrics
	policy   domain.CapacityPolicy
	timeout  time.Duration
	now      func() time.Time
}

func NewService(store domain.Store, guard SpaceGuard, notifier domain.Notifier, opts Options) *Service {
	if !opts.Policy.IsValid() {
		opts.Policy = domain.CapacityConfirmedAndPending
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:    store,
		guard:    guard,
		notifier: notifier,
		metrics:  opts.Metrics,
		policy:   opts.Policy,
		timeout:  opts.Timeout,
		now:      opts.Now,
	}
}

func (s *Service) today() domain.Date {
	return domain.DateOf(s.now())
}

// CreateReservation admits a pending reservation if the space has room for the range.
// The count-compare-insert sequence runs under the space lock and inside one transaction,
// so concurrent requests never push the counted load above MaxCapacity.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if err := in.Range.Validate(); err != nil {
		return nil, s.rejectBooking(ctx, in, err)
	}
	if in.Range.Start.Before(s.today()) {
		return nil, s.rejectBooking(ctx, in,
			fmt.Errorf("%w: start %s is in the past", domain.ErrInvalidRange, in.Range.Start))
	}

	var (
		created   *domain.Reservation
		managerID int64
	)
	err := s.guard.WithSpace(ctx, in.SpaceID, func() error {
		return s.store.InTx(ctx, func(tx domain.Store) error {
			space, err := tx.GetSpace(ctx, in.SpaceID, true)
			if err != nil {
				return err
			}

			existing, err := tx.ListActiveReservationsForSpace(ctx, space.ID, in.Range)
			if err != nil {
				return err
			}
			verdict := availability.Evaluate(*space, in.Range, existing, availability.Params{
				Policy: s.policy,
				Today:  s.today(),
			})
			if !verdict.Available {
				return fmt.Errorf("%w: %d of %d slots taken", verdict.Reason.Err(), verdict.ActiveCount, verdict.Capacity)
			}

			r := &domain.Reservation{
				SpaceID:    space.ID,
				ArtistID:   in.ArtistID,
				StartDate:  in.Range.Start,
				EndDate:    in.Range.End,
				Status:     domain.ReservationPending,
				TotalPrice: space.PriceFor(in.Range),
			}
			if err := tx.InsertReservation(ctx, r); err != nil {
				return err
			}

			loc, err := tx.GetLocation(ctx, space.LocationID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if loc != nil {
				managerID = loc.ManagerID
			}
			created = r
			return nil
		})
	})
	if err != nil {
		return nil, s.rejectBooking(ctx, in, err)
	}

	s.metrics.Reservation("created")
	logger.Info("reservation created",
		zap.Int64("reservation_id", created.ID),
		zap.Int64("space_id", created.SpaceID),
		zap.Int64("artist_id", created.ArtistID),
		zap.String("range", created.Range().String()))

	s.notify(ctx, managerID, domain.NotifReservationRequested, created, "")
	return created, nil
}

// rejectBooking turns expected outcomes into BookingRejected and passes infrastructure faults through.
func (s *Service) rejectBooking(ctx context.Context, in CreateReservationInput, err error) error {
	err = domain.ClassifyContextError(ctx, err)
	reason := ReasonOf(err)
	if reason == "" {
		s.metrics.Reservation("error")
		logger.Error("create reservation failed",
			zap.Int64("space_id", in.SpaceID),
			zap.Int64("artist_id", in.ArtistID),
			zap.Error(err))
		return err
	}
	s.metrics.Reservation(strings.ToLower(reason))
	return &BookingRejected{Reason: reason, Err: err}
}

// GetReservation returns a reservation visible to actor, with completion derived for today.
func (s *Service) GetReservation(ctx context.Context, id int64, actor domain.Actor) (*domain.Reservation, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	r, err := s.store.GetReservation(ctx, id, false)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	if !actor.IsAdmin() && actor.UserID != r.ArtistID {
		managerID, err := s.managerOfSpace(ctx, s.store, r.SpaceID)
		if err != nil {
			return nil, domain.ClassifyContextError(ctx, err)
		}
		if managerID != actor.UserID {
			return nil, domain.ErrForbidden
		}
	}
	r.Status = r.EffectiveStatus(s.today())
	return r, nil
}

func (s *Service) ListMine(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Reservation, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.store.ListReservationsByArtist(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	return s.withEffectiveStatus(list), nil
}

// ListForSpace is the manager's view of every reservation on one of their spaces.
func (s *Service) ListForSpace(ctx context.Context, spaceID int64, actor domain.Actor, limit, offset int) ([]domain.Reservation, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if !actor.IsAdmin() {
		managerID, err := s.managerOfSpace(ctx, s.store, spaceID)
		if err != nil {
			return nil, domain.ClassifyContextError(ctx, err)
		}
		if managerID != actor.UserID {
			return nil, domain.ErrForbidden
		}
	}

	list, err := s.store.ListReservationsBySpace(ctx, spaceID, limit, offset)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	return s.withEffectiveStatus(list), nil
}

func (s *Service) withEffectiveStatus(list []domain.Reservation) []domain.Reservation {
	today := s.today()
	for i := range list {
		list[i].Status = list[i].EffectiveStatus(today)
	}
	return list
}

func (s *Service) managerOfSpace(ctx context.Context, st domain.Store, spaceID int64) (int64, error) {
	space, err := st.GetSpace(ctx, spaceID, false)
	if err != nil {
		return 0, err
	}
	loc, err := st.GetLocation(ctx, space.LocationID)
	if err != nil {
		return 0, err
	}
	return loc.ManagerID, nil
}

// notify is best effort: failures are logged and never undo the committed change.
func (s *Service) notify(ctx context.Context, recipientID int64, t domain.NotificationType, r *domain.Reservation, reason string) {
	if s.notifier == nil || recipientID == 0 {
		return
	}
	payload := map[string]any{
		"reservation_id": r.ID,
		"space_id":       r.SpaceID,
		"start_date":     r.StartDate.String(),
		"end_date":       r.EndDate.String(),
		"status":         string(r.Status),
	}
	if reason != "" {
		payload["reason"] = reason
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(nctx, recipientID, t, payload); err != nil {
		logger.Warn("notification failed",
			zap.String("type", string(t)),
			zap.Int64("recipient_id", recipientID),
			zap.Int64("reservation_id", r.ID),
			zap.Error(err))
	}
}
