package availability

import (
	"context"
	"fmt"
	"time"

	"wallspace/internal/domain"
)

const maxCalendarDays = 366

// Reader is the slice of the entity store availability queries need.
type Reader interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetSpace(ctx context.Context, id int64, forUpdate bool) (*domain.Space, error)
	ListSpacesByLocation(ctx context.Context, locationID int64) ([]domain.Space, error)
	ListActiveReservationsForSpace(ctx context.Context, spaceID int64, rng domain.DateRange) ([]domain.Reservation, error)
}

type Options struct {
	Policy  domain.CapacityPolicy
	Timeout time.Duration
	Now     func() time.Time
}

// Service answers availability questions from a snapshot read. It takes no locks,
// so an answer may be stale by the time a booking is attempted.
type Service struct {
	store   Reader
	policy  domain.CapacityPolicy
	timeout time.Duration
	now     func() time.Time
}

func NewService(store Reader, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:   store,
		policy:  policyOrDefault(opts.Policy),
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

func (s *Service) params() Params {
	return Params{Policy: s.policy, Today: domain.DateOf(s.now())}
}

func (s *Service) checkBookable(rng domain.DateRange) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	if today := domain.DateOf(s.now()); rng.Start.Before(today) {
		return fmt.Errorf("%w: start %s is in the past", domain.ErrInvalidRange, rng.Start)
	}
	return nil
}

// CheckAvailability evaluates one space for a range that could still be booked.
func (s *Service) CheckAvailability(ctx context.Context, spaceID int64, rng domain.DateRange) (Result, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.checkBookable(rng); err != nil {
		return Result{}, err
	}
	space, err := s.store.GetSpace(ctx, spaceID, false)
	if err != nil {
		return Result{}, domain.ClassifyContextError(ctx, err)
	}
	existing, err := s.store.ListActiveReservationsForSpace(ctx, spaceID, rng)
	if err != nil {
		return Result{}, domain.ClassifyContextError(ctx, err)
	}
	return Evaluate(*space, rng, existing, s.params()), nil
}

// Calendar returns the per-day load of a space. Past days are allowed here.
func (s *Service) Calendar(ctx context.Context, spaceID int64, rng domain.DateRange) ([]DayLoad, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if rng.Days() > maxCalendarDays {
		return nil, fmt.Errorf("%w: calendar is limited to %d days", domain.ErrInvalidRange, maxCalendarDays)
	}
	space, err := s.store.GetSpace(ctx, spaceID, false)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	existing, err := s.store.ListActiveReservationsForSpace(ctx, spaceID, rng)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	return DailyLoad(*space, rng, existing, s.params()), nil
}

// LocationAvailability evaluates every space of a location for the same range.
func (s *Service) LocationAvailability(ctx context.Context, locationID int64, rng domain.DateRange) ([]Result, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.checkBookable(rng); err != nil {
		return nil, err
	}
	if _, err := s.store.GetLocation(ctx, locationID); err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}
	spaces, err := s.store.ListSpacesByLocation(ctx, locationID)
	if err != nil {
		return nil, domain.ClassifyContextError(ctx, err)
	}

	p := s.params()
	out := make([]Result, 0, len(spaces))
	for _, sp := range spaces {
		existing, err := s.store.ListActiveReservationsForSpace(ctx, sp.ID, rng)
		if err != nil {
			return nil, domain.ClassifyContextError(ctx, err)
		}
		out = append(out, Evaluate(sp, rng, existing, p))
	}
	return out, nil
}
