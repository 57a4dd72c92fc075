// Package comp evaluates model compensation schemes against a period's net
// revenue.
package comp

import "github.com/aurora-agency/aurora-backoffice/internal/fx"

// SchemeType enumerates the supported compensation schemes.
type SchemeType string

const (
	TypePercentage SchemeType = "Percentage"
	TypeSalary     SchemeType = "Salary"
	TypeHybrid     SchemeType = "Hybrid"
	TypeTieredDeal SchemeType = "TieredDeal"
	TypeNone       SchemeType = "None"
)

// Scheme is one model's compensation configuration. Optional fields are nil
// when the operator never filled them in; evaluation degrades to zero
// components rather than guessing.
type Scheme struct {
	Type                  SchemeType
	PayoutPct             *float64
	SalaryUSD             *float64
	SalaryEUR             *float64
	DealThreshold         *float64
	DealFlatUnderUSD      *float64
	DealFlatUnderEUR      *float64
	DealPercentAboveThold *float64
}

// tieredConfigured reports whether the cliff-deal fields are complete enough
// to take priority over the declared scheme type.
func (s Scheme) tieredConfigured() bool {
	if s.DealThreshold == nil || *s.DealThreshold <= 0 {
		return false
	}
	if s.DealFlatUnderUSD == nil && s.DealFlatUnderEUR == nil {
		return false
	}
	return s.DealPercentAboveThold != nil
}

// Evaluate returns the USD payout owed to a model for netRevenue under its
// configured scheme. rate is the EUR-per-USD rate used to resolve EUR-only
// salary or flat-fee figures. The result is never negative.
func Evaluate(s Scheme, netRevenue, rate float64) float64 {
	payout := evaluate(s, netRevenue, rate)
	if payout < 0 {
		return 0
	}
	return payout
}

func evaluate(s Scheme, netRevenue, rate float64) float64 {
	if s.tieredConfigured() {
		return evaluateTiered(s, netRevenue, rate)
	}

	switch s.Type {
	case TypePercentage:
		if s.PayoutPct == nil {
			return 0
		}
		return netRevenue * *s.PayoutPct / 100
	case TypeSalary:
		return salaryComponent(s, rate)
	case TypeHybrid:
		var pctPart float64
		if s.PayoutPct != nil {
			pctPart = netRevenue * *s.PayoutPct / 100
		}
		return pctPart + salaryComponent(s, rate)
	default:
		return 0
	}
}

// evaluateTiered applies the cliff deal: a flat fee at or under the
// threshold, a straight percentage above it. The two never blend; crossing
// the threshold replaces the flat fee entirely.
func evaluateTiered(s Scheme, netRevenue, rate float64) float64 {
	if netRevenue < 0 {
		return 0
	}
	if netRevenue <= *s.DealThreshold {
		if s.DealFlatUnderUSD != nil {
			return *s.DealFlatUnderUSD
		}
		return fx.EurToUsd(*s.DealFlatUnderEUR, rate)
	}
	return netRevenue * *s.DealPercentAboveThold / 100
}

func salaryComponent(s Scheme, rate float64) float64 {
	if s.SalaryUSD != nil {
		return *s.SalaryUSD
	}
	if s.SalaryEUR != nil {
		return fx.EurToUsd(*s.SalaryEUR, rate)
	}
	return 0
}
