package domain

import "time"

type Location struct {
	ID        int64     `json:"id"`
	ManagerID int64     `json:"manager_id"`
	Name      string    `json:"name" validate:"required"`
	Address   string    `json:"address,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Space is a bookable wall inside a Location.
//
// ManuallyClosed and IsAvailable are inputs to availability, not outputs:
// they change only through the space service's override path.
type Space struct {
	ID             int64     `json:"id"`
	LocationID     int64     `json:"location_id"`
	Name           string    `json:"name" validate:"required"`
	WidthCm        int       `json:"width_cm" validate:"gte=0"`
	HeightCm       int       `json:"height_cm" validate:"gte=0"`
	PricePerDay    int64     `json:"price_per_day" validate:"gte=0"`
	MaxCapacity    int       `json:"max_capacity" validate:"required,gte=1"`
	ManuallyClosed bool      `json:"manually_closed"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Location *Location `json:"location,omitempty"`
}

// PriceFor returns the total price for booking the space over r.
func (s *Space) PriceFor(r DateRange) int64 {
	return s.PricePerDay * int64(r.Days())
}

// UnavailableReason explains a negative availability result.
type UnavailableReason string

const (
	ReasonNone             UnavailableReason = ""
	ReasonManuallyClosed   UnavailableReason = "manually_closed"
	ReasonDeactivated      UnavailableReason = "deactivated"
	ReasonCapacityExceeded UnavailableReason = "capacity_exceeded"
)

// Err maps the reason onto its sentinel error; ReasonNone maps to nil.
func (r UnavailableReason) Err() error {
	switch r {
	case ReasonManuallyClosed:
		return ErrManuallyClosed
	case ReasonDeactivated:
		return ErrDeactivated
	case ReasonCapacityExceeded:
		return ErrCapacityExceeded
	default:
		return nil
	}
}
