package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wallspace/internal/domain"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockReader) GetSpace(ctx context.Context, id int64, forUpdate bool) (*domain.Space, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Space), args.Error(1)
}

func (m *MockReader) ListSpacesByLocation(ctx context.Context, locationID int64) ([]domain.Space, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Space), args.Error(1)
}

func (m *MockReader) ListActiveReservationsForSpace(ctx context.Context, spaceID int64, rng domain.DateRange) ([]domain.Reservation, error) {
	args := m.Called(ctx, spaceID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func newTestService(store Reader) *Service {
	return NewService(store, Options{
		Timeout: time.Second,
		Now:     func() time.Time { return today.Time().Add(9 * time.Hour) },
	})
}

func TestCheckAvailability(t *testing.T) {
	store := new(MockReader)
	sp := openSpace(2)
	store.On("GetSpace", mock.Anything, int64(1), false).Return(&sp, nil)
	store.On("ListActiveReservationsForSpace", mock.Anything, int64(1), dr("2025-03-05", "2025-03-07")).
		Return([]domain.Reservation{res(1, domain.ReservationConfirmed, "2025-03-01", "2025-03-10")}, nil)

	got, err := newTestService(store).CheckAvailability(context.Background(), 1, dr("2025-03-05", "2025-03-07"))
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, 1, got.ActiveCount)
	assert.Equal(t, 2, got.Capacity)
	store.AssertExpectations(t)
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	store := new(MockReader)
	svc := newTestService(store)

	_, err := svc.CheckAvailability(context.Background(), 1, dr("2025-03-07", "2025-03-05"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.CheckAvailability(context.Background(), 1, dr("2025-01-31", "2025-02-03"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	store.AssertNotCalled(t, "GetSpace", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckAvailability_NotFoundAndTimeout(t *testing.T) {
	store := new(MockReader)
	store.On("GetSpace", mock.Anything, int64(9), false).Return(nil, fmt.Errorf("space 9: %w", domain.ErrNotFound))
	store.On("GetSpace", mock.Anything, int64(10), false).Return(nil, context.DeadlineExceeded)
	svc := newTestService(store)

	_, err := svc.CheckAvailability(context.Background(), 9, dr("2025-03-01", "2025-03-02"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CheckAvailability(context.Background(), 10, dr("2025-03-01", "2025-03-02"))
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestCalendar(t *testing.T) {
	store := new(MockReader)
	sp := openSpace(1)
	rng := dr("2025-01-30", "2025-02-02")
	store.On("GetSpace", mock.Anything, int64(1), false).Return(&sp, nil)
	store.On("ListActiveReservationsForSpace", mock.Anything, int64(1), rng).
		Return([]domain.Reservation{res(1, domain.ReservationPending, "2025-02-01", "2025-02-05")}, nil)
	svc := newTestService(store)

	days, err := svc.Calendar(context.Background(), 1, rng)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.True(t, days[0].Available)
	assert.Equal(t, 0, days[1].Count)
	assert.Equal(t, 1, days[2].Count)
	assert.False(t, days[3].Available)

	_, err = svc.Calendar(context.Background(), 1, dr("2025-01-01", "2026-01-05"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestLocationAvailability(t *testing.T) {
	store := new(MockReader)
	rng := dr("2025-03-01", "2025-03-02")
	closed := domain.Space{ID: 2, LocationID: 5, MaxCapacity: 1, IsAvailable: true, ManuallyClosed: true}
	open := domain.Space{ID: 1, LocationID: 5, MaxCapacity: 1, IsAvailable: true}
	store.On("GetLocation", mock.Anything, int64(5)).Return(&domain.Location{ID: 5}, nil)
	store.On("ListSpacesByLocation", mock.Anything, int64(5)).Return([]domain.Space{open, closed}, nil)
	store.On("ListActiveReservationsForSpace", mock.Anything, mock.Anything, rng).Return([]domain.Reservation{}, nil)

	got, err := newTestService(store).LocationAvailability(context.Background(), 5, rng)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Available)
	assert.False(t, got[1].Available)
	assert.Equal(t, domain.ReasonManuallyClosed, got[1].Reason)
}

func TestLocationAvailability_StoreFailure(t *testing.T) {
	store := new(MockReader)
	boom := errors.New("connection reset")
	store.On("GetLocation", mock.Anything, int64(5)).Return(&domain.Location{ID: 5}, nil)
	store.On("ListSpacesByLocation", mock.Anything, int64(5)).Return(nil, boom)

	_, err := newTestService(store).LocationAvailability(context.Background(), 5, dr("2025-03-01", "2025-03-02"))
	assert.ErrorIs(t, err, boom)
}
