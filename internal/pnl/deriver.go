// Package pnl derives profit-and-loss rows from raw revenue and expense
// figures.
package pnl

import (
	"sort"

	"github.com/aurora-agency/aurora-backoffice/internal/fx"
)

// Band is the discrete margin health banding shown against a row.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// Settings holds the configurable inputs of the deriver. Percentages are
// whole numbers (20 means 20%).
type Settings struct {
	PlatformFeePct  float64
	MarginGreenPct  float64
	MarginYellowPct float64
}

// Input is one raw revenue/expense row for a model and month.
type Input struct {
	ModelID      string             `json:"model_id" validate:"required"`
	MonthKey     string             `json:"month_key" validate:"required"`
	GrossRevenue float64            `json:"gross_revenue" validate:"gte=0"`
	Expenses     map[string]float64 `json:"expenses"`
}

// Row is a fully derived P&L row. Monetary fields are rounded to two
// decimals; ProfitMarginPct is a whole-number percentage.
type Row struct {
	ModelID         string             `json:"model_id"`
	MonthKey        string             `json:"month_key"`
	GrossRevenue    float64            `json:"gross_revenue"`
	PlatformFee     float64            `json:"platform_fee"`
	NetRevenue      float64            `json:"net_revenue"`
	Expenses        map[string]float64 `json:"total_expenses_by_category"`
	TotalExpenses   float64            `json:"total_expenses"`
	NetProfit       float64            `json:"net_profit"`
	ProfitMarginPct float64            `json:"profit_margin_pct"`
	MarginBand      Band               `json:"margin_band"`
}

// Derive computes the full P&L row for one input.
func Derive(in Input, cfg Settings) Row {
	platformFee := in.GrossRevenue * cfg.PlatformFeePct / 100
	netRevenue := in.GrossRevenue - platformFee

	totalExpenses := 0.0
	expenses := make(map[string]float64, len(in.Expenses))
	for _, category := range sortedCategories(in.Expenses) {
		amount := in.Expenses[category]
		expenses[category] = fx.Round2(amount)
		totalExpenses += amount
	}

	netProfit := netRevenue - totalExpenses

	marginPct := 0.0
	if netRevenue != 0 {
		marginPct = netProfit / netRevenue * 100
	}

	return Row{
		ModelID:         in.ModelID,
		MonthKey:        in.MonthKey,
		GrossRevenue:    fx.Round2(in.GrossRevenue),
		PlatformFee:     fx.Round2(platformFee),
		NetRevenue:      fx.Round2(netRevenue),
		Expenses:        expenses,
		TotalExpenses:   fx.Round2(totalExpenses),
		NetProfit:       fx.Round2(netProfit),
		ProfitMarginPct: fx.Round2(marginPct),
		MarginBand:      BandFor(marginPct, cfg),
	}
}

// BandFor maps a margin percentage onto the configured cutoffs. Both
// cutoffs are inclusive on their lower bound.
func BandFor(marginPct float64, cfg Settings) Band {
	switch {
	case marginPct >= cfg.MarginGreenPct:
		return BandGreen
	case marginPct >= cfg.MarginYellowPct:
		return BandYellow
	default:
		return BandRed
	}
}

func sortedCategories(expenses map[string]float64) []string {
	categories := make([]string, 0, len(expenses))
	for c := range expenses {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
