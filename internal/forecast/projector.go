package forecast

import (
	"fmt"

	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/prorate"
)

// Config carries the projector's tunables.
type Config struct {
	// TrailingWindow is how many recent weekly actuals feed the fallback
	// baseline.
	TrailingWindow int
	PlatformFeePct float64
	Multipliers    map[Scenario]float64
}

// Inputs is everything one projection needs, gathered by the service. The
// projector itself is a pure function.
type Inputs struct {
	ModelID  string
	MonthKey string
	Scenario Scenario
	// Weeks overlapping the target month.
	Weeks []Week
	// Forecasts maps week ID to the model's base weekly forecast.
	Forecasts map[int64]WeeklyForecast
	// TrailingNetUSD holds the model's most recent weekly net actuals,
	// newest first, already resolved to USD.
	TrailingNetUSD []float64
	Rate           float64
}

// Projection is the computed monthly value before persistence.
type Projection struct {
	ModelID    string
	MonthKey   string
	Scenario   Scenario
	Net        fx.DualAmount
	Gross      fx.DualAmount
	SourceType string
}

// MonthProjection prorates each overlapping week's value into the month and
// sums the contributions. A week with a genuine forecast contributes its
// base projection scaled by the scenario multiplier; a week without one
// falls back to the trailing average of recent actuals, which is
// scenario-agnostic by design — the multiplier never applies to it.
func MonthProjection(in Inputs, cfg Config) (Projection, error) {
	mult := 1.0
	if m, ok := cfg.Multipliers[in.Scenario]; ok {
		mult = m
	}

	baseline := trailingAverage(in.TrailingNetUSD, cfg.TrailingWindow)

	var (
		netUSD       float64
		usedManual   bool
		usedFallback bool
	)
	for _, week := range in.Weeks {
		share, err := prorate.WeekShareInMonth(week.Start, week.End, in.MonthKey)
		if err != nil {
			return Projection{}, fmt.Errorf("forecast: week %d share: %w", week.ID, err)
		}
		if share == 0 {
			continue
		}

		if wf, ok := in.Forecasts[week.ID]; ok {
			netUSD += wf.ProjectedNetUSD * mult * share
			if wf.SourceType == SourceManual {
				usedManual = true
			}
		} else {
			netUSD += baseline * share
			usedFallback = true
		}
	}

	grossUSD := netUSD
	if cfg.PlatformFeePct < 100 {
		grossUSD = netUSD / (1 - cfg.PlatformFeePct/100)
	}

	sourceType := SourceAuto
	if usedManual && usedFallback {
		sourceType = SourceHybrid
	} else if usedManual {
		sourceType = SourceManual
	}

	return Projection{
		ModelID:    in.ModelID,
		MonthKey:   in.MonthKey,
		Scenario:   in.Scenario,
		Net:        fx.FromUSD(netUSD, in.Rate),
		Gross:      fx.FromUSD(grossUSD, in.Rate),
		SourceType: sourceType,
	}, nil
}

// trailingAverage computes the fallback baseline from the most recent
// actuals, capped at the configured window. No actuals means no baseline.
func trailingAverage(values []float64, window int) float64 {
	if window <= 0 || len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[:window]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
