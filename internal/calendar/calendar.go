// Package calendar provides the pure date arithmetic behind job generation.
// Every computation is anchored to UTC so a generated day never shifts
// across a local-midnight boundary.
package calendar

import (
	"errors"
	"time"
)

var (
	ErrBadDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrBadMonth = errors.New("invalid month, expected YYYY-MM")
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// NoonUTC pins t's calendar day to 12:00 UTC. Noon is the scheduling anchor:
// it keeps weekday math stable and leaves the day unambiguous after any
// timezone conversion a client might apply.
func NoonUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 12, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD token into its noon-UTC anchor.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return NoonUTC(t), nil
}

// Weekday reports t's day of week as 0-6 with Sunday=0, evaluated at the
// noon-UTC anchor.
func Weekday(t time.Time) int {
	return int(NoonUTC(t).Weekday())
}

// DayBounds returns the UTC [start, end) bounds of t's calendar day, used to
// range-scan jobs scheduled on that day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// MonthDays lists every day of a YYYY-MM month at the noon-UTC anchor.
// Month length falls out of date arithmetic, so 28/29/30/31-day months and
// leap years need no special casing.
func MonthDays(s string) ([]time.Time, error) {
	first, err := time.ParseInLocation(monthLayout, s, time.UTC)
	if err != nil {
		return nil, ErrBadMonth
	}
	next := first.AddDate(0, 1, 0)
	days := make([]time.Time, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, NoonUTC(d))
	}
	return days, nil
}
