package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/pkg/metrics"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Publisher hands events to an external delivery channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Event struct {
	Type        domain.NotificationType `json:"type"`
	RecipientID int64                   `json:"recipient_id"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	Payload     map[string]any          `json:"payload,omitempty"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

// Service stores in-app notifications and forwards them to the publisher when one is set.
// It satisfies domain.Notifier.
type Service struct {
	repo      Repository
	publisher Publisher
	metrics   *metrics.Metrics
}

func NewService(repo Repository, publisher Publisher, m *metrics.Metrics) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: m}
}

func (s *Service) Notify(ctx context.Context, recipientID int64, t domain.NotificationType, payload map[string]any) error {
	title, message := render(t, payload)
	n := &domain.Notification{
		UserID:  recipientID,
		Type:    t,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.metrics.Notification(string(t), "failed")
		return fmt.Errorf("store notification: %w", err)
	}
	s.metrics.Notification(string(t), "stored")

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, Event{
			Type:        t,
			RecipientID: recipientID,
			Title:       title,
			Message:     message,
			Payload:     payload,
			OccurredAt:  n.CreatedAt,
		})
		if err != nil {
			// The in-app copy is already stored; external delivery may catch up later.
			logger.Warn("notification publish failed",
				zap.Int64("notification_id", n.ID),
				zap.String("type", string(t)),
				zap.Error(err))
			s.metrics.Notification(string(t), "publish_failed")
		} else {
			s.metrics.Notification(string(t), "published")
		}
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Prune deletes notifications older than retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	start := time.Now()
	deleted, err := s.repo.DeleteOlderThan(ctx, retention)
	if err != nil {
		return 0, err
	}
	logger.Info("notifications pruned",
		zap.Int64("deleted", deleted),
		zap.Duration("took", time.Since(start)))
	return deleted, nil
}

func render(t domain.NotificationType, p map[string]any) (string, string) {
	id := p["reservation_id"]
	period := fmt.Sprintf("%v to %v", p["start_date"], p["end_date"])

	switch t {
	case domain.NotifReservationRequested:
		return "New reservation request",
			fmt.Sprintf("Reservation #%v requests space #%v from %s", id, p["space_id"], period)
	case domain.NotifReservationConfirmed:
		return "Reservation confirmed",
			fmt.Sprintf("Your reservation #%v from %s has been confirmed", id, period)
	case domain.NotifReservationRejected:
		msg := fmt.Sprintf("Your reservation #%v from %s was rejected", id, period)
		if reason, ok := p["reason"].(string); ok && reason != "" {
			msg += ". Reason: " + reason
		}
		return "Reservation rejected", msg
	case domain.NotifReservationCancelled:
		return "Reservation cancelled",
			fmt.Sprintf("Reservation #%v from %s has been cancelled", id, period)
	default:
		return string(t), ""
	}
}
