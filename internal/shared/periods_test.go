package shared

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	first, last, err := MonthRange("2025-02")
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}
	if got, want := first, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("first = %v want %v", got, want)
	}
	if got, want := last, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("last = %v want %v", got, want)
	}
}

func TestMonthRangeLeapYear(t *testing.T) {
	_, last, err := MonthRange("2024-02")
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}
	if last.Day() != 29 {
		t.Fatalf("expected leap february to end on 29, got %d", last.Day())
	}
}

func TestParseMonthKeyRejectsGarbage(t *testing.T) {
	for _, key := range []string{"", "2025", "2025-13", "feb-2025"} {
		if _, err := ParseMonthKey(key); err == nil {
			t.Fatalf("ParseMonthKey(%q) expected error", key)
		}
	}
}

func TestWeekKey(t *testing.T) {
	start := time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	if got, want := WeekKey(start, end), "2025-03-24_2025-03-30"; got != want {
		t.Fatalf("WeekKey = %q want %q", got, want)
	}
}
