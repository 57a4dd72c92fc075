// Package prorate distributes weekly figures across the calendar months they
// overlap, weighted by day overlap.
package prorate

import (
	"time"

	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// defaultWeekDays covers malformed week records whose interval does not
// span a positive number of days.
const defaultWeekDays = 7

// OverlapDays returns the inclusive day count of the intersection of two
// closed calendar-day intervals, or 0 when they are disjoint.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := shared.DateOnly(aStart)
	if b := shared.DateOnly(bStart); b.After(start) {
		start = b
	}
	end := shared.DateOnly(aEnd)
	if b := shared.DateOnly(bEnd); b.Before(end) {
		end = b
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// WeekShareInMonth returns the fraction of a week interval that falls inside
// the keyed month, in [0, 1]. Shares of one week summed across every month
// it overlaps equal 1. A week whose recorded interval is malformed is
// treated as seven days long.
func WeekShareInMonth(weekStart, weekEnd time.Time, monthKey string) (float64, error) {
	monthStart, monthEnd, err := shared.MonthRange(monthKey)
	if err != nil {
		return 0, err
	}

	totalDays := inclusiveDays(weekStart, weekEnd)
	if totalDays <= 0 {
		totalDays = defaultWeekDays
	}

	overlap := OverlapDays(weekStart, weekEnd, monthStart, monthEnd)
	if overlap <= 0 {
		return 0, nil
	}
	return float64(overlap) / float64(totalDays), nil
}

func inclusiveDays(start, end time.Time) int {
	s, e := shared.DateOnly(start), shared.DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
