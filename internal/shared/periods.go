package shared

import (
	"fmt"
	"strings"
	"time"
)

// MonthKeyLayout is the canonical period key format ("YYYY-MM").
const MonthKeyLayout = "2006-01"

// ParseMonthKey validates and parses a period key.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse(MonthKeyLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("shared: invalid month key %q: %w", key, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthKey formats a time as a period key.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// MonthRange returns the first and last calendar day of the keyed month,
// both at midnight UTC. The range is closed on both ends.
func MonthRange(key string) (time.Time, time.Time, error) {
	first, err := ParseMonthKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekKey derives the canonical key for a week interval.
func WeekKey(start, end time.Time) string {
	return start.Format(time.DateOnly) + "_" + end.Format(time.DateOnly)
}
