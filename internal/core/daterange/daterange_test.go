package daterange

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestRange_SingleDayIsInclusive(t *testing.T) {
	loc := mustLoad(t, "Asia/Colombo")
	n := New(loc)

	r, err := n.Range("2025-01-05", "2025-01-05")
	require.NoError(t, err)

	assert.True(t, time.Date(2025, 1, 5, 0, 0, 0, 0, loc).Equal(r.Start))
	assert.True(t, time.Date(2025, 1, 5, 23, 59, 59, 999999000, loc).Equal(r.End))
	assert.True(t, r.Contains(time.Date(2025, 1, 5, 10, 0, 0, 0, loc)))
	assert.False(t, r.Contains(time.Date(2025, 1, 6, 0, 0, 0, 0, loc)))
	assert.False(t, r.Contains(time.Date(2025, 1, 4, 23, 59, 59, 0, loc)))
}

func TestRange_AcceptsSlashLayout(t *testing.T) {
	n := New(time.UTC)

	r, err := n.Range("2025/01/05", "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Start.Day())
	assert.Equal(t, 7, r.End.Day())
}

func TestRange_EmptyEndReusesStart(t *testing.T) {
	n := New(time.UTC)

	r, err := n.Range("2025-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, r.Start.YearDay(), r.End.YearDay())
}

func TestRange_Invalid(t *testing.T) {
	n := New(time.UTC)

	cases := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2025-01-01"},
		{"garbage", "yesterday", ""},
		{"bad month", "2025-13-01", ""},
		{"bad end", "2025-01-01", "01-02-2025"},
		{"inverted", "2025-01-02", "2025-01-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := n.Range(tc.start, tc.end)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.True(t, r.Start.IsZero())
			assert.True(t, r.End.IsZero())
		})
	}
}

func TestRange_ZoneIsInjected(t *testing.T) {
	colombo := New(mustLoad(t, "Asia/Colombo"))
	utc := New(time.UTC)

	rc, err := colombo.Range("2025-01-05", "")
	require.NoError(t, err)
	ru, err := utc.Range("2025-01-05", "")
	require.NoError(t, err)

	// Colombo is UTC+05:30, so its day starts earlier on the absolute timeline.
	assert.Equal(t, 5*time.Hour+30*time.Minute, ru.Start.Sub(rc.Start))
}

func TestDay_EmptyMeansToday(t *testing.T) {
	loc := mustLoad(t, "Asia/Colombo")
	// 20:00 UTC on Jan 5 is already Jan 6 in Colombo.
	clock := func() time.Time { return time.Date(2025, 1, 5, 20, 0, 0, 0, time.UTC) }
	n := New(loc).WithClock(clock)

	assert.Equal(t, "2025-01-06", n.Today())

	r, err := n.Day("")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 6, 0, 0, 0, 0, loc).Equal(r.Start))
}

func TestRange_DaylightSavingDays(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	n := New(loc)

	// 23-hour day: clocks spring forward at 02:00.
	r, err := n.Range("2025-03-09", "2025-03-09")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 9, 23, 59, 59, 999999000, loc).Equal(r.End))
	assert.True(t, r.Contains(time.Date(2025, 3, 9, 23, 30, 0, 0, loc)))
	assert.False(t, r.Contains(time.Date(2025, 3, 10, 0, 30, 0, 0, loc)))

	// 25-hour day: clocks fall back at 02:00.
	r, err = n.Range("2025-11-02", "2025-11-02")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 11, 2, 23, 59, 59, 999999000, loc).Equal(r.End))
	assert.True(t, r.Contains(time.Date(2025, 11, 2, 23, 30, 0, 0, loc)))
	assert.False(t, r.Contains(time.Date(2025, 11, 3, 0, 0, 0, 0, loc)))
}

func TestRange_MultiDaySpansDaylightChange(t *testing.T) {
	loc := mustLoad(t, "Europe/London")
	n := New(loc)

	r, err := n.Range("2025-03-29", "2025-03-31")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 29, 0, 0, 0, 0, loc).Equal(r.Start))
	assert.True(t, time.Date(2025, 3, 31, 23, 59, 59, 999999000, loc).Equal(r.End))
}
