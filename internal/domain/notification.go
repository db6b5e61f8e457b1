package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotifReservationRequested NotificationType = "reservation_requested"
	NotifReservationConfirmed NotificationType = "reservation_confirmed"
	NotifReservationRejected  NotificationType = "reservation_rejected"
	NotifReservationCancelled NotificationType = "reservation_cancelled"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      map[string]any   `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Notifier delivers reservation events to a user. Callers treat it as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, recipientID int64, t NotificationType, payload map[string]any) error
}
