package fx

import (
	"math"
	"testing"
)

func TestUsdToEur(t *testing.T) {
	if got := UsdToEur(100, 0.92); got != 92 {
		t.Fatalf("UsdToEur(100, 0.92) = %v want 92", got)
	}
	if got := UsdToEur(100, 0); got != 0 {
		t.Fatalf("expected zero for non-positive rate, got %v", got)
	}
	if got := UsdToEur(100, -1); got != 0 {
		t.Fatalf("expected zero for negative rate, got %v", got)
	}
}

func TestEurToUsd(t *testing.T) {
	if got := EurToUsd(92, 0.92); got != 100 {
		t.Fatalf("EurToUsd(92, 0.92) = %v want 100", got)
	}
	if got := EurToUsd(92, 0); got != 0 {
		t.Fatalf("expected zero for non-positive rate, got %v", got)
	}
}

// Round-trip holds within one cent, not exactly: two independent roundings.
func TestRoundTripWithinOneCent(t *testing.T) {
	rates := []float64{0.85, 0.92, 1.0, 1.13}
	amounts := []float64{0.01, 1, 19.99, 123.45, 10000, 987654.32}
	for _, rate := range rates {
		for _, usd := range amounts {
			back := EurToUsd(UsdToEur(usd, rate), rate)
			if diff := math.Abs(back - usd); diff > 0.01 {
				t.Fatalf("round trip usd=%v rate=%v drifted by %v", usd, rate, diff)
			}
		}
	}
}

func TestReconcileBothPresentTrustedIndependently(t *testing.T) {
	usd, eur := 100.0, 95.0
	got := Reconcile(&usd, &eur, 0.92)
	if got.USD != 100 || got.EUR != 95 {
		t.Fatalf("Reconcile kept neither side as-is: %+v", got)
	}
}

func TestReconcileDerivesMissingSide(t *testing.T) {
	usd := 100.0
	got := Reconcile(&usd, nil, 0.92)
	if got.EUR != 92 {
		t.Fatalf("expected derived EUR 92, got %v", got.EUR)
	}

	eur := 92.0
	got = Reconcile(nil, &eur, 0.92)
	if got.USD != 100 {
		t.Fatalf("expected derived USD 100, got %v", got.USD)
	}
}

func TestReconcileNeitherPresent(t *testing.T) {
	got := Reconcile(nil, nil, 0.92)
	if got.USD != 0 || got.EUR != 0 {
		t.Fatalf("expected zero dual amount, got %+v", got)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	cases := map[float64]float64{
		0.125:  0.13,
		-0.125: -0.13,
		2.344:  2.34,
		2.346:  2.35,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v want %v", in, got, want)
		}
	}
}
