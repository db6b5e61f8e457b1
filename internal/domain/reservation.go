package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled, ReservationCompleted},
	ReservationCancelled: {},
	ReservationCompleted: {},
}

func (s ReservationStatus) IsValid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

type Reservation struct {
	ID              int64             `json:"id"`
	SpaceID         int64             `json:"space_id"`
	ArtistID        int64             `json:"artist_id"`
	StartDate       Date              `json:"start_date"`
	EndDate         Date              `json:"end_date"`
	Status          ReservationStatus `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	TotalPrice      int64             `json:"total_price"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ConfirmedAt     *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
}

func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// EffectiveStatus derives "completed" for a confirmed reservation whose last day is before today.
// The stored status is left alone; the sweep persists it on demand.
func (r *Reservation) EffectiveStatus(today Date) ReservationStatus {
	if r.Status == ReservationConfirmed && r.EndDate.Before(today) {
		return ReservationCompleted
	}
	return r.Status
}

// CountsToward reports whether the reservation consumes capacity under the given policy on today.
func (r *Reservation) CountsToward(policy CapacityPolicy, today Date) bool {
	switch r.EffectiveStatus(today) {
	case ReservationConfirmed:
		return true
	case ReservationPending:
		return policy == CapacityConfirmedAndPending
	default:
		return false
	}
}

// CapacityPolicy decides which statuses occupy a slot.
type CapacityPolicy string

const (
	// CapacityConfirmedAndPending holds a slot for every open request, so admission never overbooks.
	CapacityConfirmedAndPending CapacityPolicy = "confirmed_and_pending"
	// CapacityConfirmedOnly counts manager-accepted reservations only.
	CapacityConfirmedOnly CapacityPolicy = "confirmed_only"
)

func (p CapacityPolicy) IsValid() bool {
	return p == CapacityConfirmedAndPending || p == CapacityConfirmedOnly
}
