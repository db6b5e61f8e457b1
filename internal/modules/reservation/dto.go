package reservation

import "wallspace/internal/domain"

type CreateReservationRequest struct {
	SpaceID   int64  `json:"space_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// RejectRequest caps the reason at 200 characters. Emptiness is judged by the service.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

type CreateReservationInput struct {
	SpaceID  int64
	ArtistID int64
	Range    domain.DateRange
}

type ActionKind string

const (
	ActionConfirm ActionKind = "confirm"
	ActionReject  ActionKind = "reject"
	ActionCancel  ActionKind = "cancel"
)

type Action struct {
	Kind   ActionKind
	Reason string
}

func Confirm() Action              { return Action{Kind: ActionConfirm} }
func Reject(reason string) Action { return Action{Kind: ActionReject, Reason: reason} }
func Cancel() Action              { return Action{Kind: ActionCancel} }
