package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"wallspace/internal/domain"
)

type reservationModel struct {
	ID              int64       `gorm:"column:id;primaryKey"`
	SpaceID         int64       `gorm:"column:space_id;not null;index:idx_reservations_space_range,priority:1"`
	ArtistID        int64       `gorm:"column:artist_id;not null;index"`
	StartDate       domain.Date `gorm:"column:start_date;type:date;not null;index:idx_reservations_space_range,priority:2"`
	EndDate         domain.Date `gorm:"column:end_date;type:date;not null;index:idx_reservations_space_range,priority:3"`
	Status          string      `gorm:"column:status;not null;index"`
	RejectionReason *string     `gorm:"column:rejection_reason;type:text"`
	TotalPrice      int64       `gorm:"column:total_price;not null"`
	CreatedAt       time.Time   `gorm:"column:created_at"`
	UpdatedAt       time.Time   `gorm:"column:updated_at"`
	ConfirmedAt     *time.Time  `gorm:"column:confirmed_at"`
	CancelledAt     *time.Time  `gorm:"column:cancelled_at"`
}

func (reservationModel) TableName() string { return "reservations" }

var activeStatuses = []string{
	string(domain.ReservationPending),
	string(domain.ReservationConfirmed),
}

func toDomainReservation(m reservationModel) *domain.Reservation {
	var reason string
	if m.RejectionReason != nil {
		reason = *m.RejectionReason
	}
	return &domain.Reservation{
		ID:              m.ID,
		SpaceID:         m.SpaceID,
		ArtistID:        m.ArtistID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Status:          domain.ReservationStatus(m.Status),
		RejectionReason: reason,
		TotalPrice:      m.TotalPrice,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		ConfirmedAt:     m.ConfirmedAt,
		CancelledAt:     m.CancelledAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	var reason *string
	if r.RejectionReason != "" {
		v := r.RejectionReason
		reason = &v
	}
	return reservationModel{
		ID:              r.ID,
		SpaceID:         r.SpaceID,
		ArtistID:        r.ArtistID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Status:          string(r.Status),
		RejectionReason: reason,
		TotalPrice:      r.TotalPrice,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		ConfirmedAt:     r.ConfirmedAt,
		CancelledAt:     r.CancelledAt,
	}
}

func toDomainReservations(rows []reservationModel) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out
}

func (s *Store) ListActiveReservationsForSpace(ctx context.Context, spaceID int64, rng domain.DateRange) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := s.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", rng.End, rng.Start).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

func (s *Store) InsertReservation(ctx context.Context, r *domain.Reservation) error {
	m := toReservationModel(r)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*r = *toDomainReservation(m)
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id int64, forUpdate bool) (*domain.Reservation, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m reservationModel
	if err := q.First(&m, id).Error; err != nil {
		return nil, notFound(err, "reservation", id)
	}
	return toDomainReservation(m), nil
}

func (s *Store) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, reason string) error {
	now := time.Now()
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	switch to {
	case domain.ReservationConfirmed:
		updates["confirmed_at"] = now
	case domain.ReservationCancelled:
		updates["cancelled_at"] = now
		if reason != "" {
			updates["rejection_reason"] = reason
		}
	}

	res := s.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: reservation %d is no longer %s", domain.ErrConcurrencyConflict, id, from)
	}
	return nil
}

func (s *Store) ListReservationsByArtist(ctx context.Context, artistID int64, limit, offset int) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := s.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("start_date DESC, id DESC")
	if err := pageOf(q, limit, offset).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

func (s *Store) ListReservationsBySpace(ctx context.Context, spaceID int64, limit, offset int) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := s.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("start_date ASC, id ASC")
	if err := pageOf(q, limit, offset).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservations(rows), nil
}

// CompleteElapsedReservations persists the derived "completed" status. Running it twice is harmless.
func (s *Store) CompleteElapsedReservations(ctx context.Context, today domain.Date) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("status = ? AND end_date < ?", string(domain.ReservationConfirmed), today).
		Updates(map[string]any{
			"status":     string(domain.ReservationCompleted),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}
