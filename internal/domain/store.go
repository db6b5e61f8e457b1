package domain

import "context"

// Store is the persistence contract the engine runs against.
// Methods called on the Store passed to InTx's callback share one transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	GetLocation(ctx context.Context, id int64) (*Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
	CreateLocation(ctx context.Context, l *Location) error

	// GetSpace with forUpdate takes a row lock where the database supports it.
	GetSpace(ctx context.Context, id int64, forUpdate bool) (*Space, error)
	ListSpacesByLocation(ctx context.Context, locationID int64) ([]Space, error)
	CreateSpace(ctx context.Context, s *Space) error
	UpdateSpaceFlags(ctx context.Context, id int64, manuallyClosed, isAvailable bool) error

	// ListActiveReservationsForSpace returns pending and confirmed reservations overlapping rng.
	ListActiveReservationsForSpace(ctx context.Context, spaceID int64, rng DateRange) ([]Reservation, error)
	InsertReservation(ctx context.Context, r *Reservation) error
	GetReservation(ctx context.Context, id int64, forUpdate bool) (*Reservation, error)
	// UpdateReservationStatus moves id from one status to another; a row no longer in `from`
	// yields ErrConcurrencyConflict.
	UpdateReservationStatus(ctx context.Context, id int64, from, to ReservationStatus, reason string) error
	ListReservationsByArtist(ctx context.Context, artistID int64, limit, offset int) ([]Reservation, error)
	ListReservationsBySpace(ctx context.Context, spaceID int64, limit, offset int) ([]Reservation, error)
	CompleteElapsedReservations(ctx context.Context, today Date) (int64, error)
}
