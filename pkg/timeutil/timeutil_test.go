package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 4, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestStartOfWeek_SundayAligned(t *testing.T) {
	// 2026-03-01 is a Sunday.
	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	wednesday := time.Date(2026, 3, 4, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, sunday, StartOfWeek(wednesday))

	// A Sunday is its own week start.
	assert.Equal(t, sunday, StartOfWeek(sunday.Add(9*time.Hour)))

	// Saturday still belongs to the week that began six days earlier.
	saturday := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, sunday, StartOfWeek(saturday))
}

func TestStartOfMonthAndYear(t *testing.T) {
	ts := time.Date(2026, 7, 19, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), StartOfYear(ts))
}

func TestWeekNumber(t *testing.T) {
	// 2026-01-01 is a Thursday (weekday 4), so the formula offsets the
	// day-of-year by 5.
	assert.Equal(t, 1, WeekNumber(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, WeekNumber(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekNumber(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 10, WeekNumber(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 53, WeekNumber(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "W1", WeekLabel(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "W10", WeekLabel(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan", MonthLabel(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dec", MonthLabel(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSameYear(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	c := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameYear(a, b))
	assert.False(t, SameYear(b, c))
}
