package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wallspace/internal/domain"
)

type notificationModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	UserID    int64          `gorm:"column:user_id;not null;index:idx_notifications_user_unread,priority:1"`
	Type      string         `gorm:"column:type;not null"`
	Title     string         `gorm:"column:title;not null"`
	Message   *string        `gorm:"column:message;type:text"`
	IsRead    bool           `gorm:"column:is_read;not null;index:idx_notifications_user_unread,priority:2"`
	Data      map[string]any `gorm:"column:data;serializer:json"`
	ReadAt    *time.Time     `gorm:"column:read_at"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (notificationModel) TableName() string { return "notifications" }

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func toDomainNotification(m notificationModel) domain.Notification {
	msg := ""
	if m.Message != nil {
		msg = *m.Message
	}
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Title:     m.Title,
		Message:   msg,
		IsRead:    m.IsRead,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	var msg *string
	if n.Message != "" {
		m := n.Message
		msg = &m
	}
	m := notificationModel{
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: msg,
		IsRead:  n.IsRead,
		Data:    n.Data,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*n = toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "notification", id)
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()}).Error
}

// DeleteOlderThan removes notifications created before now-age.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", time.Now().Add(-age)).
		Delete(&notificationModel{})
	return res.RowsAffected, res.Error
}
