package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wallspace/internal/domain"
)

var today = domain.MustParseDate("2025-02-01")

func openSpace(capacity int) domain.Space {
	return domain.Space{ID: 1, MaxCapacity: capacity, IsAvailable: true, PricePerDay: 1000}
}

func res(id int64, status domain.ReservationStatus, start, end string) domain.Reservation {
	return domain.Reservation{
		ID:        id,
		SpaceID:   1,
		Status:    status,
		StartDate: domain.MustParseDate(start),
		EndDate:   domain.MustParseDate(end),
	}
}

func dr(start, end string) domain.DateRange {
	return domain.DateRange{Start: domain.MustParseDate(start), End: domain.MustParseDate(end)}
}

func TestEvaluate_NoReservations(t *testing.T) {
	got := Evaluate(openSpace(1), dr("2025-03-01", "2025-03-05"), nil, Params{Today: today})

	assert.True(t, got.Available)
	assert.Equal(t, domain.ReasonNone, got.Reason)
	assert.Equal(t, 0, got.ActiveCount)
	assert.Equal(t, 1, got.Capacity)
}

func TestEvaluate_ManualClosureWinsOverEverything(t *testing.T) {
	s := openSpace(3)
	s.ManuallyClosed = true
	s.IsAvailable = false

	got := Evaluate(s, dr("2025-03-01", "2025-03-05"), nil, Params{Today: today})

	assert.False(t, got.Available)
	assert.Equal(t, domain.ReasonManuallyClosed, got.Reason)
}

func TestEvaluate_Deactivated(t *testing.T) {
	s := openSpace(3)
	s.IsAvailable = false

	got := Evaluate(s, dr("2025-03-01", "2025-03-05"), nil, Params{Today: today})

	assert.False(t, got.Available)
	assert.Equal(t, domain.ReasonDeactivated, got.Reason)
}

func TestEvaluate_CapacityTwoScenario(t *testing.T) {
	s := openSpace(2)
	existing := []domain.Reservation{res(1, domain.ReservationConfirmed, "2025-03-01", "2025-03-10")}

	first := Evaluate(s, dr("2025-03-05", "2025-03-07"), existing, Params{Today: today})
	assert.True(t, first.Available)
	assert.Equal(t, 1, first.ActiveCount)

	existing = append(existing, res(2, domain.ReservationPending, "2025-03-05", "2025-03-07"))
	second := Evaluate(s, dr("2025-03-06", "2025-03-06"), existing, Params{Today: today})
	assert.False(t, second.Available)
	assert.Equal(t, domain.ReasonCapacityExceeded, second.Reason)
	assert.Equal(t, 2, second.ActiveCount)
	assert.Equal(t, 1, second.PendingCount)
}

func TestEvaluate_ConfirmedOnlyPolicyIgnoresPending(t *testing.T) {
	existing := []domain.Reservation{res(1, domain.ReservationPending, "2025-03-01", "2025-03-05")}

	got := Evaluate(openSpace(1), dr("2025-03-01", "2025-03-05"), existing,
		Params{Policy: domain.CapacityConfirmedOnly, Today: today})

	assert.True(t, got.Available)
	assert.Equal(t, 0, got.ActiveCount)
	assert.Equal(t, 1, got.PendingCount)
}

func TestEvaluate_IgnoresCancelledCompletedAndAbutting(t *testing.T) {
	existing := []domain.Reservation{
		res(1, domain.ReservationCancelled, "2025-03-01", "2025-03-05"),
		res(2, domain.ReservationCompleted, "2025-03-01", "2025-03-05"),
		res(3, domain.ReservationConfirmed, "2025-02-20", "2025-02-28"),
		res(4, domain.ReservationConfirmed, "2025-03-06", "2025-03-09"),
		res(5, domain.ReservationConfirmed, "2025-01-01", "2025-01-31"),
	}
	got := Evaluate(openSpace(1), dr("2025-03-01", "2025-03-05"), existing, Params{Today: today})

	assert.True(t, got.Available)
	assert.Equal(t, 0, got.ActiveCount)
}

func TestEvaluate_ExcludeIDAndForeignSpace(t *testing.T) {
	other := res(9, domain.ReservationConfirmed, "2025-03-01", "2025-03-05")
	other.SpaceID = 2
	existing := []domain.Reservation{
		res(1, domain.ReservationPending, "2025-03-01", "2025-03-05"),
		other,
	}

	got := Evaluate(openSpace(1), dr("2025-03-01", "2025-03-05"), existing,
		Params{Today: today, ExcludeID: 1})

	assert.True(t, got.Available)
	assert.Equal(t, 0, got.ActiveCount)
}

func TestEvaluate_IsPure(t *testing.T) {
	s := openSpace(2)
	existing := []domain.Reservation{
		res(1, domain.ReservationConfirmed, "2025-03-01", "2025-03-10"),
		res(2, domain.ReservationPending, "2025-03-03", "2025-03-04"),
	}
	candidate := dr("2025-03-02", "2025-03-03")
	p := Params{Today: today}

	first := Evaluate(s, candidate, existing, p)
	second := Evaluate(s, candidate, existing, p)

	assert.Equal(t, first, second)
	assert.Len(t, existing, 2)
}

func TestDailyLoad(t *testing.T) {
	existing := []domain.Reservation{
		res(1, domain.ReservationConfirmed, "2025-03-01", "2025-03-02"),
		res(2, domain.ReservationPending, "2025-03-02", "2025-03-03"),
	}

	days := DailyLoad(openSpace(2), dr("2025-03-01", "2025-03-04"), existing, Params{Today: today})

	if assert.Len(t, days, 4) {
		assert.Equal(t, "2025-03-01", days[0].Date.String())
		assert.Equal(t, 1, days[0].Count)
		assert.Equal(t, 2, days[1].Count)
		assert.False(t, days[1].Available)
		assert.Equal(t, 1, days[2].Count)
		assert.Equal(t, 0, days[3].Count)
		assert.True(t, days[3].Available)
	}

	assert.Nil(t, DailyLoad(openSpace(1), dr("2025-03-04", "2025-03-01"), nil, Params{Today: today}))
}
