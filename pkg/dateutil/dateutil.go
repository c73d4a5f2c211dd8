package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the calendar-date layout used for every stored and transmitted date.
const ISOLayout = "2006-01-02"

const hoursPerDay = 24

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseISO parses a YYYY-MM-DD string into a UTC calendar date.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatISO renders t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// DaysBetween returns the signed number of whole calendar days from a to b.
// It is positive when b is after a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / hoursPerDay)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns the date for day in year/month, clamped to the month's last day.
func ClampDay(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped adds n months to anchor keeping the anchor's day of month,
// clamped to the target month's last day. Jan 31 plus one month is Feb 28 or 29.
func AddMonthsClamped(anchor time.Time, n int) time.Time {
	y, m, d := anchor.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return ClampDay(first.Year(), first.Month(), d)
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// AbsInt returns |v|.
func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
