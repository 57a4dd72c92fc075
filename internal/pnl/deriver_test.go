package pnl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSettings() Settings {
	return Settings{PlatformFeePct: 20, MarginGreenPct: 30, MarginYellowPct: 10}
}

func TestDeriveFullRow(t *testing.T) {
	row := Derive(Input{
		ModelID:      "m1",
		MonthKey:     "2025-03",
		GrossRevenue: 12500,
		Expenses:     map[string]float64{"ads": 1500, "chatting": 2000, "software": 500},
	}, testSettings())

	assert.Equal(t, 2500.0, row.PlatformFee)
	assert.Equal(t, 10000.0, row.NetRevenue)
	assert.Equal(t, 4000.0, row.TotalExpenses)
	assert.Equal(t, 6000.0, row.NetProfit)
	assert.Equal(t, 60.0, row.ProfitMarginPct)
	assert.Equal(t, BandGreen, row.MarginBand)
}

func TestDeriveZeroNetRevenueNeverDivides(t *testing.T) {
	row := Derive(Input{GrossRevenue: 0, Expenses: map[string]float64{"ads": 100}}, testSettings())
	assert.Equal(t, 0.0, row.ProfitMarginPct)
	assert.Equal(t, -100.0, row.NetProfit)
	assert.Equal(t, BandRed, row.MarginBand)
}

func TestMarginBandBoundaries(t *testing.T) {
	cfg := testSettings()
	cases := []struct {
		marginPct float64
		want      Band
	}{
		{30, BandGreen},   // green cutoff inclusive
		{29.99, BandYellow},
		{10, BandYellow},  // yellow cutoff inclusive
		{9.99, BandRed},
		{0, BandRed},
		{-20, BandRed},
		{75, BandGreen},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, BandFor(tc.marginPct, cfg), "margin %v", tc.marginPct)
	}
}

func TestDeriveNoExpenses(t *testing.T) {
	row := Derive(Input{GrossRevenue: 1000}, testSettings())
	assert.Equal(t, 0.0, row.TotalExpenses)
	assert.Equal(t, 800.0, row.NetProfit)
	assert.Equal(t, 100.0, row.ProfitMarginPct)
}
