package roster

import (
	"time"

	"github.com/aurora-agency/aurora-backoffice/internal/comp"
)

// Model is one creator managed by the agency, with compensation config.
type Model struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	CompensationType string    `json:"compensation_type"`
	CreatorPayoutPct *float64  `json:"creator_payout_pct,omitempty"`
	SalaryUSD        *float64  `json:"salary_usd,omitempty"`
	SalaryEUR        *float64  `json:"salary_eur,omitempty"`
	DealThreshold    *float64  `json:"deal_threshold,omitempty"`
	DealFlatUSD      *float64  `json:"deal_flat_under_threshold_usd,omitempty"`
	DealFlatEUR      *float64  `json:"deal_flat_under_threshold_eur,omitempty"`
	DealPercentAbove *float64  `json:"deal_percent_above_threshold,omitempty"`
	LegacyRowID      *int64    `json:"legacy_row_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Scheme converts the stored compensation columns into an evaluator scheme.
func (m Model) Scheme() comp.Scheme {
	return comp.Scheme{
		Type:                  comp.SchemeType(m.CompensationType),
		PayoutPct:             m.CreatorPayoutPct,
		SalaryUSD:             m.SalaryUSD,
		SalaryEUR:             m.SalaryEUR,
		DealThreshold:         m.DealThreshold,
		DealFlatUnderUSD:      m.DealFlatUSD,
		DealFlatUnderEUR:      m.DealFlatEUR,
		DealPercentAboveThold: m.DealPercentAbove,
	}
}

// WeeklyStat is one model's actuals for a week interval. Exactly one of the
// revenue figures is the recorded source; the counterpart is derived with
// the platform fee percentage.
type WeeklyStat struct {
	ID           int64      `json:"id"`
	ModelID      string     `json:"model_id"`
	WeekStart    time.Time  `json:"start_date"`
	WeekEnd      time.Time  `json:"end_date"`
	GrossRevenue *float64   `json:"gross_revenue,omitempty"`
	NetRevenue   *float64   `json:"net_revenue,omitempty"`
}

// NetUSD resolves the stat's net figure, deriving it from gross when only
// gross was recorded. The fallback chain is ordered: recorded net, then
// gross less the platform fee.
func (s WeeklyStat) NetUSD(platformFeePct float64) float64 {
	if s.NetRevenue != nil {
		return *s.NetRevenue
	}
	if s.GrossRevenue != nil {
		return *s.GrossRevenue * (1 - platformFeePct/100)
	}
	return 0
}

// GrossUSD resolves the stat's gross figure, deriving it from net when only
// net was recorded.
func (s WeeklyStat) GrossUSD(platformFeePct float64) float64 {
	if s.GrossRevenue != nil {
		return *s.GrossRevenue
	}
	if s.NetRevenue != nil && platformFeePct < 100 {
		return *s.NetRevenue / (1 - platformFeePct/100)
	}
	return 0
}
