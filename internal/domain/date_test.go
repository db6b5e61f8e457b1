package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(start, end string) DateRange {
	return DateRange{Start: MustParseDate(start), End: MustParseDate(end)}
}

func TestDateRange_OverlapsIsSymmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"identical", rng("2025-03-01", "2025-03-05"), rng("2025-03-01", "2025-03-05"), true},
		{"contained", rng("2025-03-01", "2025-03-10"), rng("2025-03-05", "2025-03-07"), true},
		{"shared last day", rng("2025-03-01", "2025-03-05"), rng("2025-03-05", "2025-03-09"), true},
		{"abutting", rng("2025-03-01", "2025-03-05"), rng("2025-03-06", "2025-03-09"), false},
		{"disjoint", rng("2025-03-01", "2025-03-02"), rng("2025-04-01", "2025-04-02"), false},
		{"single day inside", rng("2025-03-01", "2025-03-05"), rng("2025-03-03", "2025-03-03"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a))
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 1, rng("2025-03-01", "2025-03-01").Days())
	assert.Equal(t, 5, rng("2025-03-01", "2025-03-05").Days())
	assert.Equal(t, 2, rng("2025-02-28", "2025-03-01").Days())
}

func TestDateRange_Validate(t *testing.T) {
	assert.NoError(t, rng("2025-03-01", "2025-03-01").Validate())
	assert.ErrorIs(t, rng("2025-03-05", "2025-03-01").Validate(), ErrInvalidRange)
	assert.ErrorIs(t, DateRange{}.Validate(), ErrInvalidRange)

	_, err := ParseDateRange("2025-03-01", "03/05/2025")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan("2025-03-01"))
	assert.Equal(t, "2025-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-03-02T00:00:00Z")))
	assert.Equal(t, "2025-03-02", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: NewDate(2025, time.March, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-03-01"}`, string(b))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-12-31"}`), &out))
	assert.True(t, out.D.Equal(NewDate(2025, time.December, 31)))
}
