package utils

import (
	"errors"
	"time"
)

const DayLayout = "2006-01-02"

var ErrBadDate = errors.New("invalid date")

// DayStart truncates t to midnight UTC of its calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts YYYY-MM-DD or an RFC3339 timestamp and returns the
// calendar day at midnight UTC.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return DayStart(t), nil
}

// ParseMonth parses YYYY-MM into [first of month, first of next month).
func ParseMonth(s string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, time.Time{}, ErrBadDate
	}
	return start, start.AddDate(0, 1, 0), nil
}

func DayKey(t time.Time) string { return t.UTC().Format(DayLayout) }
