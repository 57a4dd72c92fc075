package roster

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestWeeklyStatNetPrefersRecordedNet(t *testing.T) {
	s := WeeklyStat{GrossRevenue: f(1000), NetRevenue: f(850)}
	if got := s.NetUSD(20); got != 850 {
		t.Fatalf("NetUSD = %v want recorded 850", got)
	}
}

func TestWeeklyStatNetDerivedFromGross(t *testing.T) {
	s := WeeklyStat{GrossRevenue: f(1000)}
	if got := s.NetUSD(20); got != 800 {
		t.Fatalf("NetUSD = %v want 800", got)
	}
}

func TestWeeklyStatGrossDerivedFromNet(t *testing.T) {
	s := WeeklyStat{NetRevenue: f(800)}
	if got := s.GrossUSD(20); math.Abs(got-1000) > 1e-9 {
		t.Fatalf("GrossUSD = %v want 1000", got)
	}
}

func TestWeeklyStatEmptyYieldsZero(t *testing.T) {
	var s WeeklyStat
	if s.NetUSD(20) != 0 || s.GrossUSD(20) != 0 {
		t.Fatal("expected zero figures for empty stat")
	}
}

func TestModelSchemeMapping(t *testing.T) {
	m := Model{
		CompensationType: "Percentage",
		CreatorPayoutPct: f(25),
		DealThreshold:    f(2000),
	}
	s := m.Scheme()
	if string(s.Type) != "Percentage" {
		t.Fatalf("scheme type = %q", s.Type)
	}
	if s.PayoutPct == nil || *s.PayoutPct != 25 {
		t.Fatalf("scheme pct = %v", s.PayoutPct)
	}
	if s.DealThreshold == nil || *s.DealThreshold != 2000 {
		t.Fatalf("scheme threshold = %v", s.DealThreshold)
	}
}
