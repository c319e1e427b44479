package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowFor_UTC(t *testing.T) {
	now := time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC)
	cal := NewCalendar(now, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), cal.Day.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cal.Day.End)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), cal.Month.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cal.Month.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cal.Year.Start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cal.Year.End)
}

func TestWindowFor_ZoneShiftsTheDay(t *testing.T) {
	kolkata, err := LoadLocation("Asia/Kolkata", nil)
	require.NoError(t, err)

	// 20:00 UTC del 31/12 ya es 01/01 en India.
	now := time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)
	cal := NewCalendar(now, kolkata)

	assert.True(t, cal.Day.Start.Equal(time.Date(2023, 12, 31, 18, 30, 0, 0, time.UTC)))
	assert.True(t, cal.Year.Start.Equal(cal.Day.Start), "el año nuevo empieza con el día")
	assert.True(t, cal.Month.Start.Equal(cal.Day.Start))

	utc := NewCalendar(now, time.UTC)
	assert.Equal(t, 2023, utc.Year.Start.Year())
}

func TestWindow_ContainsIsHalfOpen(t *testing.T) {
	w := WindowFor(PeriodDay, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.True(t, Window{}.Contains(time.Time{}))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus", time.UTC)
	assert.Error(t, err)
}
