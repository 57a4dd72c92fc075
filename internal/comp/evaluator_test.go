package comp

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestPercentageScheme(t *testing.T) {
	s := Scheme{Type: TypePercentage, PayoutPct: f(20)}
	if got := Evaluate(s, 10000, 0.92); got != 2000 {
		t.Fatalf("Evaluate = %v want 2000", got)
	}
}

func TestPercentageSchemeMissingPct(t *testing.T) {
	s := Scheme{Type: TypePercentage}
	if got := Evaluate(s, 10000, 0.92); got != 0 {
		t.Fatalf("Evaluate = %v want 0 when pct absent", got)
	}
}

func TestSalarySchemeIndependentOfRevenue(t *testing.T) {
	s := Scheme{Type: TypeSalary, SalaryUSD: f(3000)}
	for _, revenue := range []float64{0, 500, 100000} {
		if got := Evaluate(s, revenue, 0.92); got != 3000 {
			t.Fatalf("Evaluate(revenue=%v) = %v want 3000", revenue, got)
		}
	}
}

func TestSalarySchemeEurOnlyConvertsAtRate(t *testing.T) {
	s := Scheme{Type: TypeSalary, SalaryEUR: f(920)}
	if got := Evaluate(s, 0, 0.92); got != 1000 {
		t.Fatalf("Evaluate = %v want 1000", got)
	}
}

func TestSalarySchemePrefersUSDOverEUR(t *testing.T) {
	s := Scheme{Type: TypeSalary, SalaryUSD: f(3000), SalaryEUR: f(920)}
	if got := Evaluate(s, 0, 0.92); got != 3000 {
		t.Fatalf("Evaluate = %v want 3000 (usd figure wins)", got)
	}
}

func TestHybridScheme(t *testing.T) {
	s := Scheme{Type: TypeHybrid, PayoutPct: f(10), SalaryUSD: f(500)}
	if got := Evaluate(s, 4000, 0.92); got != 900 {
		t.Fatalf("Evaluate = %v want 900", got)
	}
}

func TestTieredDealCliff(t *testing.T) {
	s := Scheme{
		Type:                  TypePercentage, // tiered fields take priority anyway
		PayoutPct:             f(50),
		DealThreshold:         f(1000),
		DealFlatUnderUSD:      f(200),
		DealPercentAboveThold: f(10),
	}
	cases := []struct {
		revenue float64
		want    float64
	}{
		{0, 200},
		{999, 200},
		{1000, 200}, // boundary is inclusive of the flat fee
		{5000, 500},
	}
	for _, tc := range cases {
		if got := Evaluate(s, tc.revenue, 0.92); got != tc.want {
			t.Fatalf("Evaluate(revenue=%v) = %v want %v", tc.revenue, got, tc.want)
		}
	}

	// Just past the threshold the flat fee is replaced, not blended.
	got := Evaluate(s, 1000.01, 0.92)
	if math.Abs(got-100.001) > 1e-9 {
		t.Fatalf("Evaluate(1000.01) = %v want ~100.001", got)
	}
}

func TestTieredDealNegativeRevenue(t *testing.T) {
	s := Scheme{
		DealThreshold:         f(1000),
		DealFlatUnderUSD:      f(200),
		DealPercentAboveThold: f(10),
	}
	if got := Evaluate(s, -50, 0.92); got != 0 {
		t.Fatalf("Evaluate = %v want 0 for negative revenue", got)
	}
}

func TestTieredDealEurFlatConvertsOnlyWithoutUSD(t *testing.T) {
	s := Scheme{
		DealThreshold:         f(1000),
		DealFlatUnderEUR:      f(184),
		DealPercentAboveThold: f(10),
	}
	if got := Evaluate(s, 500, 0.92); got != 200 {
		t.Fatalf("Evaluate = %v want 200 (184 EUR at 0.92)", got)
	}

	s.DealFlatUnderUSD = f(250)
	if got := Evaluate(s, 500, 0.92); got != 250 {
		t.Fatalf("Evaluate = %v want 250 (usd flat wins)", got)
	}
}

func TestTieredDealIncompleteFallsThrough(t *testing.T) {
	// No percent-above configured: the declared percentage scheme applies.
	s := Scheme{
		Type:             TypePercentage,
		PayoutPct:        f(20),
		DealThreshold:    f(1000),
		DealFlatUnderUSD: f(200),
	}
	if got := Evaluate(s, 10000, 0.92); got != 2000 {
		t.Fatalf("Evaluate = %v want 2000", got)
	}
}

func TestUnknownSchemeYieldsZero(t *testing.T) {
	for _, typ := range []SchemeType{TypeNone, "", "Mystery"} {
		if got := Evaluate(Scheme{Type: typ}, 10000, 0.92); got != 0 {
			t.Fatalf("Evaluate(type=%q) = %v want 0", typ, got)
		}
	}
}

func TestNoNegativePayouts(t *testing.T) {
	s := Scheme{Type: TypePercentage, PayoutPct: f(20)}
	if got := Evaluate(s, -10000, 0.92); got != 0 {
		t.Fatalf("Evaluate = %v want 0 floor", got)
	}
}
