// Package fx maintains the USD/EUR rate and reconciles dual-currency
// amounts. The rate is a single scalar per computation: every derived amount
// keeps the rate used when it was produced and is never restated against a
// later quote.
package fx

import "math"

// Round2 rounds to two decimal places, half away from zero. Applied only at
// the persistence boundary; intermediate math stays at full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UsdToEur converts a USD amount at the given EUR-per-USD rate.
func UsdToEur(usd, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return Round2(usd * rate)
}

// EurToUsd converts a EUR amount at the given EUR-per-USD rate.
func EurToUsd(eur, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return Round2(eur / rate)
}

// DualAmount is a monetary value carried simultaneously in both currencies,
// stamped with the rate that produced the derived side.
type DualAmount struct {
	USD  float64 `json:"amount_usd"`
	EUR  float64 `json:"amount_eur"`
	Rate float64 `json:"fx_rate_used"`
}

// Reconcile fills in whichever side of a dual amount is missing. When both
// sides are present they are trusted independently and only rounded; when
// neither is present the amount is zero in both currencies.
func Reconcile(usd, eur *float64, rate float64) DualAmount {
	out := DualAmount{Rate: rate}
	switch {
	case usd != nil && eur != nil:
		out.USD = Round2(*usd)
		out.EUR = Round2(*eur)
	case usd != nil:
		out.USD = Round2(*usd)
		out.EUR = UsdToEur(*usd, rate)
	case eur != nil:
		out.EUR = Round2(*eur)
		out.USD = EurToUsd(*eur, rate)
	}
	return out
}

// FromUSD builds a dual amount with the EUR side derived.
func FromUSD(usd, rate float64) DualAmount {
	return Reconcile(&usd, nil, rate)
}
