package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wallspace/internal/domain"
)

type locationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ManagerID int64     `gorm:"column:manager_id;index"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address"`
	Tags      []string  `gorm:"column:tags;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (locationModel) TableName() string { return "locations" }

type spaceModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	LocationID     int64     `gorm:"column:location_id;index;not null"`
	Name           string    `gorm:"column:name;not null"`
	WidthCm        int       `gorm:"column:width_cm"`
	HeightCm       int       `gorm:"column:height_cm"`
	PricePerDay    int64     `gorm:"column:price_per_day;not null"`
	MaxCapacity    int       `gorm:"column:max_capacity;not null"`
	ManuallyClosed bool      `gorm:"column:manually_closed;not null"`
	IsAvailable    bool      `gorm:"column:is_available;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (spaceModel) TableName() string { return "spaces" }

func toDomainLocation(m locationModel) *domain.Location {
	return &domain.Location{
		ID:        m.ID,
		ManagerID: m.ManagerID,
		Name:      m.Name,
		Address:   m.Address,
		Tags:      m.Tags,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainSpace(m spaceModel) *domain.Space {
	return &domain.Space{
		ID:             m.ID,
		LocationID:     m.LocationID,
		Name:           m.Name,
		WidthCm:        m.WidthCm,
		HeightCm:       m.HeightCm,
		PricePerDay:    m.PricePerDay,
		MaxCapacity:    m.MaxCapacity,
		ManuallyClosed: m.ManuallyClosed,
		IsAvailable:    m.IsAvailable,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (s *Store) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var m locationModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "location", id)
	}
	return toDomainLocation(m), nil
}

func (s *Store) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var rows []locationModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]domain.Location, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainLocation(m))
	}
	return out, nil
}

func (s *Store) CreateLocation(ctx context.Context, l *domain.Location) error {
	m := locationModel{
		ManagerID: l.ManagerID,
		Name:      l.Name,
		Address:   l.Address,
		Tags:      l.Tags,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*l = *toDomainLocation(m)
	return nil
}

func (s *Store) GetSpace(ctx context.Context, id int64, forUpdate bool) (*domain.Space, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m spaceModel
	if err := q.First(&m, id).Error; err != nil {
		return nil, notFound(err, "space", id)
	}
	return toDomainSpace(m), nil
}

func (s *Store) ListSpacesByLocation(ctx context.Context, locationID int64) ([]domain.Space, error) {
	var rows []spaceModel
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	out := make([]domain.Space, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainSpace(m))
	}
	return out, nil
}

func (s *Store) CreateSpace(ctx context.Context, sp *domain.Space) error {
	m := spaceModel{
		LocationID:     sp.LocationID,
		Name:           sp.Name,
		WidthCm:        sp.WidthCm,
		HeightCm:       sp.HeightCm,
		PricePerDay:    sp.PricePerDay,
		MaxCapacity:    sp.MaxCapacity,
		ManuallyClosed: sp.ManuallyClosed,
		IsAvailable:    sp.IsAvailable,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*sp = *toDomainSpace(m)
	return nil
}

func (s *Store) UpdateSpaceFlags(ctx context.Context, id int64, manuallyClosed, isAvailable bool) error {
	res := s.db.WithContext(ctx).
		Model(&spaceModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"manually_closed": manuallyClosed,
			"is_available":    isAvailable,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "space", id)
	}
	return nil
}
