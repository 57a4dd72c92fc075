package prorate

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapDays(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       int
	}{
		{"identical", date(2025, 3, 1), date(2025, 3, 7), date(2025, 3, 1), date(2025, 3, 7), 7},
		{"disjoint", date(2025, 3, 1), date(2025, 3, 7), date(2025, 4, 1), date(2025, 4, 7), 0},
		{"partial", date(2025, 3, 29), date(2025, 4, 4), date(2025, 3, 1), date(2025, 3, 31), 3},
		{"single day touch", date(2025, 3, 31), date(2025, 4, 6), date(2025, 3, 1), date(2025, 3, 31), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapDays(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("OverlapDays = %d want %d", got, tc.want)
			}
		})
	}
}

func TestWeekShareFullyInsideMonth(t *testing.T) {
	share, err := WeekShareInMonth(date(2025, 3, 3), date(2025, 3, 9), "2025-03")
	if err != nil {
		t.Fatalf("WeekShareInMonth() error = %v", err)
	}
	if share != 1 {
		t.Fatalf("share = %v want 1", share)
	}
}

func TestWeekShareSplitAcrossBoundarySumsToOne(t *testing.T) {
	// Week spanning March 29 – April 4: 3 days in March, 4 in April.
	start, end := date(2025, 3, 29), date(2025, 4, 4)
	march, err := WeekShareInMonth(start, end, "2025-03")
	if err != nil {
		t.Fatalf("march share: %v", err)
	}
	april, err := WeekShareInMonth(start, end, "2025-04")
	if err != nil {
		t.Fatalf("april share: %v", err)
	}
	if math.Abs(march-3.0/7.0) > 1e-9 {
		t.Fatalf("march share = %v want 3/7", march)
	}
	if math.Abs(march+april-1) > 1e-9 {
		t.Fatalf("shares sum to %v want 1", march+april)
	}
}

func TestWeekShareDisjointMonth(t *testing.T) {
	share, err := WeekShareInMonth(date(2025, 3, 3), date(2025, 3, 9), "2025-06")
	if err != nil {
		t.Fatalf("WeekShareInMonth() error = %v", err)
	}
	if share != 0 {
		t.Fatalf("share = %v want 0", share)
	}
}

func TestWeekShareMalformedWeekFallsBackToSevenDays(t *testing.T) {
	// End before start: the interval is nonsense, but the overlap of the
	// stored start day still prorates against a seven-day denominator.
	share, err := WeekShareInMonth(date(2025, 3, 10), date(2025, 3, 4), "2025-03")
	if err != nil {
		t.Fatalf("WeekShareInMonth() error = %v", err)
	}
	if share != 0 {
		t.Fatalf("share = %v want 0 for inverted interval", share)
	}
}

func TestWeekShareRejectsBadMonthKey(t *testing.T) {
	if _, err := WeekShareInMonth(date(2025, 3, 3), date(2025, 3, 9), "soon"); err == nil {
		t.Fatal("expected error for malformed month key")
	}
}
