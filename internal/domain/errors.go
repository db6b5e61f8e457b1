package domain

import "errors"

// Outcomes a caller is expected to handle. None of them is an infrastructure fault.
var (
	ErrInvalidRange           = errors.New("invalid date range")
	ErrManuallyClosed         = errors.New("space is manually closed")
	ErrDeactivated            = errors.New("space is deactivated")
	ErrCapacityExceeded       = errors.New("space capacity exceeded")
	ErrInvalidTransition      = errors.New("invalid reservation status transition")
	ErrMissingRejectionReason = errors.New("rejection reason is required")
	ErrNotFound               = errors.New("not found")
	ErrTimeout                = errors.New("operation timed out")
	ErrConcurrencyConflict    = errors.New("concurrent modification conflict")
	ErrForbidden              = errors.New("forbidden")
)
