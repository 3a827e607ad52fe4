// Package timeutil provides UTC period-boundary helpers for stats
// bucketing: Sunday-aligned week starts, calendar month and year starts,
// and the ledger's week-number and bucket-label formulas.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the start of the week containing t, Sunday-aligned,
// at 00:00 UTC.
func StartOfWeek(t time.Time) time.Time {
	u := t.UTC()
	daysSinceSunday := int(u.Weekday()) // Sunday = 0
	return StartOfDay(u.AddDate(0, 0, -daysSinceSunday))
}

// StartOfMonth returns the first day of the calendar month containing t,
// at 00:00 UTC.
func StartOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfYear returns January 1 of the year containing t, at 00:00 UTC.
func StartOfYear(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// WeekNumber computes the bucket week number for a date:
//
//	ceil((dayOfYear + weekday(Jan 1) + 1) / 7)
//
// where weekday(Jan 1) is 0 for Sunday. This is a carried-over
// approximation, not ISO-8601 week numbering; external consumers depend
// on the exact bucketing.
func WeekNumber(t time.Time) int {
	u := t.UTC()
	jan1 := StartOfYear(u)
	firstWeekday := int(jan1.Weekday())
	return int(math.Ceil(float64(u.YearDay()+firstWeekday+1) / 7.0))
}

// WeekLabel returns the week bucket label for a date, e.g. "W23".
func WeekLabel(t time.Time) string {
	return fmt.Sprintf("W%d", WeekNumber(t))
}

// MonthLabel returns the month bucket label for a date: the short month
// name, e.g. "Jan".
func MonthLabel(t time.Time) string {
	return t.UTC().Format("Jan")
}

// SameYear reports whether two times fall in the same UTC calendar year.
func SameYear(a, b time.Time) bool {
	return a.UTC().Year() == b.UTC().Year()
}
