package reservation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/modules/availability"
	"wallspace/internal/pkg/logger"
)

type transitionPlan struct {
	from, to domain.ReservationStatus
}

// TransitionReservation moves a reservation along pending -> confirmed | cancelled and
// confirmed -> cancelled. On any error the stored reservation is left as it was.
func (s *Service) TransitionReservation(ctx context.Context, id int64, action Action, actor domain.Actor) (*domain.Reservation, error) {
	ctx, cancel := domain.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	switch action.Kind {
	case ActionConfirm, ActionCancel:
	case ActionReject:
		if strings.TrimSpace(action.Reason) == "" {
			return nil, s.failTransition(ctx, id, action, domain.ErrMissingRejectionReason)
		}
	default:
		return nil, s.failTransition(ctx, id, action,
			fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, action.Kind))
	}

	current, err := s.store.GetReservation(ctx, id, false)
	if err != nil {
		return nil, s.failTransition(ctx, id, action, err)
	}

	var (
		updated   *domain.Reservation
		managerID int64
	)
	err = s.guard.WithSpace(ctx, current.SpaceID, func() error {
		return s.store.InTx(ctx, func(tx domain.Store) error {
			r, err := tx.GetReservation(ctx, id, true)
			if err != nil {
				return err
			}
			space, err := tx.GetSpace(ctx, r.SpaceID, true)
			if err != nil {
				return err
			}
			loc, err := tx.GetLocation(ctx, space.LocationID)
			if err != nil {
				return err
			}
			managerID = loc.ManagerID

			if err := authorize(action.Kind, actor, r, loc); err != nil {
				return err
			}
			plan, err := s.plan(action.Kind, r)
			if err != nil {
				return err
			}

			if plan.to == domain.ReservationConfirmed {
				existing, err := tx.ListActiveReservationsForSpace(ctx, space.ID, r.Range())
				if err != nil {
					return err
				}
				verdict := availability.Evaluate(*space, r.Range(), existing, availability.Params{
					Policy:    domain.CapacityConfirmedOnly,
					Today:     s.today(),
					ExcludeID: r.ID,
				})
				if !verdict.Available {
					return fmt.Errorf("%w: %d of %d slots confirmed", verdict.Reason.Err(), verdict.ActiveCount, verdict.Capacity)
				}
			}

			if err := tx.UpdateReservationStatus(ctx, r.ID, plan.from, plan.to, action.Reason); err != nil {
				return err
			}
			updated, err = tx.GetReservation(ctx, r.ID, false)
			return err
		})
	})
	if err != nil {
		return nil, s.failTransition(ctx, id, action, err)
	}

	s.metrics.Transition(string(action.Kind), "ok")
	logger.Info("reservation transitioned",
		zap.Int64("reservation_id", updated.ID),
		zap.String("action", string(action.Kind)),
		zap.String("status", string(updated.Status)),
		zap.Int64("actor_id", actor.UserID))

	switch action.Kind {
	case ActionConfirm:
		s.notify(ctx, updated.ArtistID, domain.NotifReservationConfirmed, updated, "")
	case ActionReject:
		s.notify(ctx, updated.ArtistID, domain.NotifReservationRejected, updated, action.Reason)
	case ActionCancel:
		recipient := updated.ArtistID
		if actor.UserID == updated.ArtistID {
			recipient = managerID
		}
		s.notify(ctx, recipient, domain.NotifReservationCancelled, updated, "")
	}
	return updated, nil
}

// plan checks the action against the reservation's status as of today.
func (s *Service) plan(kind ActionKind, r *domain.Reservation) (transitionPlan, error) {
	today := s.today()
	status := r.EffectiveStatus(today)

	switch kind {
	case ActionConfirm:
		if status != domain.ReservationPending {
			return transitionPlan{}, fmt.Errorf("%w: cannot confirm a %s reservation", domain.ErrInvalidTransition, status)
		}
		if r.EndDate.Before(today) {
			return transitionPlan{}, fmt.Errorf("%w: reservation ended on %s", domain.ErrInvalidTransition, r.EndDate)
		}
		return transitionPlan{from: domain.ReservationPending, to: domain.ReservationConfirmed}, nil
	case ActionReject:
		if status != domain.ReservationPending {
			return transitionPlan{}, fmt.Errorf("%w: cannot reject a %s reservation", domain.ErrInvalidTransition, status)
		}
		return transitionPlan{from: domain.ReservationPending, to: domain.ReservationCancelled}, nil
	case ActionCancel:
		if status != domain.ReservationConfirmed {
			return transitionPlan{}, fmt.Errorf("%w: cannot cancel a %s reservation", domain.ErrInvalidTransition, status)
		}
		return transitionPlan{from: domain.ReservationConfirmed, to: domain.ReservationCancelled}, nil
	}
	return transitionPlan{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, kind)
}

// authorize: confirm and reject belong to the location's manager; the artist may also cancel.
func authorize(kind ActionKind, actor domain.Actor, r *domain.Reservation, loc *domain.Location) error {
	if actor.IsAdmin() || actor.UserID == loc.ManagerID {
		return nil
	}
	if kind == ActionCancel && actor.UserID == r.ArtistID {
		return nil
	}
	return fmt.Errorf("%w: user %d may not %s reservation %d", domain.ErrForbidden, actor.UserID, kind, r.ID)
}

func (s *Service) failTransition(ctx context.Context, id int64, action Action, err error) error {
	err = domain.ClassifyContextError(ctx, err)
	reason := ReasonOf(err)
	if reason == "" {
		s.metrics.Transition(string(action.Kind), "error")
		logger.Error("reservation transition failed",
			zap.Int64("reservation_id", id),
			zap.String("action", string(action.Kind)),
			zap.Error(err))
		return err
	}
	s.metrics.Transition(string(action.Kind), strings.ToLower(reason))
	return &TransitionError{Action: action.Kind, Reason: reason, Err: err}
}
