package reservation

import (
	"errors"
	"fmt"

	"wallspace/internal/domain"
)

// Reason codes carried by BookingRejected and TransitionError. The HTTP layer reuses them.
const (
	ReasonInvalidRange           = "INVALID_RANGE"
	ReasonManuallyClosed         = "MANUALLY_CLOSED"
	ReasonDeactivated            = "DEACTIVATED"
	ReasonCapacityExceeded       = "CAPACITY_EXCEEDED"
	ReasonInvalidTransition      = "INVALID_TRANSITION"
	ReasonMissingRejectionReason = "MISSING_REJECTION_REASON"
	ReasonNotFound               = "NOT_FOUND"
	ReasonTimeout                = "TIMEOUT"
	ReasonConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	ReasonForbidden              = "FORBIDDEN"
)

var reasons = []struct {
	err  error
	code string
}{
	{domain.ErrMissingRejectionReason, ReasonMissingRejectionReason},
	{domain.ErrInvalidRange, ReasonInvalidRange},
	{domain.ErrManuallyClosed, ReasonManuallyClosed},
	{domain.ErrDeactivated, ReasonDeactivated},
	{domain.ErrCapacityExceeded, ReasonCapacityExceeded},
	{domain.ErrInvalidTransition, ReasonInvalidTransition},
	{domain.ErrNotFound, ReasonNotFound},
	{domain.ErrForbidden, ReasonForbidden},
	{domain.ErrTimeout, ReasonTimeout},
	{domain.ErrConcurrencyConflict, ReasonConcurrencyConflict},
}

// ReasonOf returns the reason code for an expected outcome, or "" for infrastructure faults.
func ReasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ""
}

// BookingRejected explains why CreateReservation persisted nothing.
type BookingRejected struct {
	Reason string
	Err    error
}

func (e *BookingRejected) Error() string {
	return fmt.Sprintf("booking rejected (%s): %v", e.Reason, e.Err)
}

func (e *BookingRejected) Unwrap() error { return e.Err }

// TransitionError explains why TransitionReservation left the reservation unchanged.
type TransitionError struct {
	Action ActionKind
	Reason string
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Action, e.Reason, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }
