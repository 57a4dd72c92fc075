// Package forecast projects monthly revenue for a model from weekly
// forecasts and trailing actuals.
package forecast

import (
	"time"
)

// Scenario selects the projection stance.
type Scenario string

const (
	ScenarioExpected     Scenario = "expected"
	ScenarioConservative Scenario = "conservative"
	ScenarioAggressive   Scenario = "aggressive"
)

// ValidScenario reports whether s is one of the known scenarios.
func ValidScenario(s Scenario) bool {
	switch s {
	case ScenarioExpected, ScenarioConservative, ScenarioAggressive:
		return true
	}
	return false
}

// DefaultMultipliers scale a genuine weekly forecast per scenario. The
// trailing-average fallback is scenario-agnostic and never scaled.
func DefaultMultipliers() map[Scenario]float64 {
	return map[Scenario]float64{
		ScenarioExpected:     1.0,
		ScenarioConservative: 0.85,
		ScenarioAggressive:   1.15,
	}
}

// Source types on stored forecast rows.
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
	SourceHybrid = "hybrid"
)

// Week is one week interval from the record store.
type Week struct {
	ID    int64     `json:"id"`
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// WeeklyForecast is an operator- or system-entered base projection for one
// model and week, before any scenario multiplier.
type WeeklyForecast struct {
	ID              int64     `json:"id"`
	ModelID         string    `json:"model_id"`
	WeekID          int64     `json:"week_id"`
	ProjectedNetUSD float64   `json:"projected_net_usd"`
	SourceType      string    `json:"source_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// ModelForecast is the derived monthly projection, upserted by its natural
// key (model + month + scenario). A locked row's financial fields are never
// overwritten by auto-recompute; only notes may change.
type ModelForecast struct {
	ModelID           string    `json:"model_id"`
	MonthKey          string    `json:"month_key"`
	Scenario          Scenario  `json:"scenario"`
	ProjectedNetUSD   float64   `json:"projected_net_usd"`
	ProjectedGrossUSD float64   `json:"projected_gross_usd"`
	ProjectedNetEUR   float64   `json:"projected_net_eur"`
	ProjectedGrossEUR float64   `json:"projected_gross_eur"`
	FxRateUsed        float64   `json:"fx_rate_used"`
	SourceType        string    `json:"source_type"`
	IsLocked          bool      `json:"is_locked"`
	Notes             string    `json:"notes"`
	UpdatedAt         time.Time `json:"updated_at"`
}
