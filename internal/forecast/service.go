package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// RateProvider supplies the EUR-per-USD rate in effect for a computation.
type RateProvider interface {
	Rate(ctx context.Context) float64
}

// Service orchestrates forecast recomputation.
type Service struct {
	repo   Repository
	stats  roster.Repository
	rates  RateProvider
	cfg    Config
	logger *slog.Logger
}

// NewService constructs the service.
func NewService(repo Repository, stats roster.Repository, rates RateProvider, cfg Config, logger *slog.Logger) *Service {
	if cfg.Multipliers == nil {
		cfg.Multipliers = DefaultMultipliers()
	}
	return &Service{repo: repo, stats: stats, rates: rates, cfg: cfg, logger: logger}
}

// Recompute projects one model's month under a scenario and upserts the
// result by natural key. A locked existing forecast aborts with a conflict
// before anything is written.
//
// The lock check and the upsert are two store round-trips, not one atomic
// step. With a single writer per key that window is harmless; revisit if
// concurrent writers ever appear.
func (s *Service) Recompute(ctx context.Context, modelID, monthKey string, scenario Scenario) (ModelForecast, error) {
	if modelID == "" {
		return ModelForecast{}, fmt.Errorf("%w: model id required", httpx.ErrValidation)
	}
	if !ValidScenario(scenario) {
		return ModelForecast{}, fmt.Errorf("%w: unknown scenario %q", httpx.ErrValidation, scenario)
	}
	monthStart, _, err := shared.MonthRange(monthKey)
	if err != nil {
		return ModelForecast{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	existing, err := s.repo.Get(ctx, modelID, monthKey, scenario)
	switch {
	case err == nil:
		if existing.IsLocked {
			return ModelForecast{}, fmt.Errorf("%w: forecast %s %s %s", httpx.ErrLocked, modelID, monthKey, scenario)
		}
	case errors.Is(err, httpx.ErrNotFound):
		// First computation for this key.
	default:
		return ModelForecast{}, err
	}

	weeks, err := s.repo.WeeksOverlappingMonth(ctx, monthKey)
	if err != nil {
		return ModelForecast{}, err
	}
	weekIDs := make([]int64, 0, len(weeks))
	for _, w := range weeks {
		weekIDs = append(weekIDs, w.ID)
	}
	forecasts, err := s.repo.WeeklyForecasts(ctx, modelID, weekIDs)
	if err != nil {
		return ModelForecast{}, err
	}

	trailing, err := s.trailingNet(ctx, modelID, monthStart)
	if err != nil {
		return ModelForecast{}, err
	}

	proj, err := MonthProjection(Inputs{
		ModelID:        modelID,
		MonthKey:       monthKey,
		Scenario:       scenario,
		Weeks:          weeks,
		Forecasts:      forecasts,
		TrailingNetUSD: trailing,
		Rate:           s.rates.Rate(ctx),
	}, s.cfg)
	if err != nil {
		return ModelForecast{}, err
	}

	row := ModelForecast{
		ModelID:           proj.ModelID,
		MonthKey:          proj.MonthKey,
		Scenario:          proj.Scenario,
		ProjectedNetUSD:   proj.Net.USD,
		ProjectedGrossUSD: proj.Gross.USD,
		ProjectedNetEUR:   proj.Net.EUR,
		ProjectedGrossEUR: proj.Gross.EUR,
		FxRateUsed:        proj.Net.Rate,
		SourceType:        proj.SourceType,
		Notes:             existing.Notes,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return ModelForecast{}, err
	}
	if s.logger != nil {
		s.logger.Info("forecast recomputed",
			slog.String("model_id", modelID),
			slog.String("month", monthKey),
			slog.String("scenario", string(scenario)),
			slog.Float64("net_usd", row.ProjectedNetUSD))
	}
	return row, nil
}

// UpdateNotes edits a forecast's notes. This is the one write permitted on
// a locked row.
func (s *Service) UpdateNotes(ctx context.Context, modelID, monthKey string, scenario Scenario, notes string) error {
	if !ValidScenario(scenario) {
		return fmt.Errorf("%w: unknown scenario %q", httpx.ErrValidation, scenario)
	}
	return s.repo.UpdateNotes(ctx, modelID, monthKey, scenario, notes)
}

// Get fetches a stored forecast.
func (s *Service) Get(ctx context.Context, modelID, monthKey string, scenario Scenario) (ModelForecast, error) {
	return s.repo.Get(ctx, modelID, monthKey, scenario)
}

func (s *Service) trailingNet(ctx context.Context, modelID string, before time.Time) ([]float64, error) {
	stats, err := s.stats.RecentStats(ctx, modelID, before, s.cfg.TrailingWindow)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(stats))
	for _, st := range stats {
		values = append(values, st.NetUSD(s.cfg.PlatformFeePct))
	}
	return values, nil
}
