package forecast

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

type fakeRepo struct {
	weeks     []Week
	forecasts map[int64]WeeklyForecast
	stored    map[string]ModelForecast

	upserts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		forecasts: map[int64]WeeklyForecast{},
		stored:    map[string]ModelForecast{},
	}
}

func key(modelID, monthKey string, scenario Scenario) string {
	return modelID + "|" + monthKey + "|" + string(scenario)
}

func (f *fakeRepo) WeeksOverlappingMonth(_ context.Context, _ string) ([]Week, error) {
	return f.weeks, nil
}

func (f *fakeRepo) WeeklyForecasts(_ context.Context, _ string, _ []int64) (map[int64]WeeklyForecast, error) {
	return f.forecasts, nil
}

func (f *fakeRepo) Get(_ context.Context, modelID, monthKey string, scenario Scenario) (ModelForecast, error) {
	mf, ok := f.stored[key(modelID, monthKey, scenario)]
	if !ok {
		return ModelForecast{}, httpx.ErrNotFound
	}
	return mf, nil
}

func (f *fakeRepo) Upsert(_ context.Context, mf ModelForecast) error {
	f.upserts++
	k := key(mf.ModelID, mf.MonthKey, mf.Scenario)
	if prev, ok := f.stored[k]; ok {
		mf.IsLocked = prev.IsLocked
	}
	f.stored[k] = mf
	return nil
}

func (f *fakeRepo) UpdateNotes(_ context.Context, modelID, monthKey string, scenario Scenario, notes string) error {
	k := key(modelID, monthKey, scenario)
	mf, ok := f.stored[k]
	if !ok {
		return httpx.ErrNotFound
	}
	mf.Notes = notes
	f.stored[k] = mf
	return nil
}

type fakeStats struct {
	stats []roster.WeeklyStat
}

func (f *fakeStats) List(context.Context) ([]roster.Model, error) { return nil, nil }
func (f *fakeStats) Get(context.Context, string) (roster.Model, error) {
	return roster.Model{}, httpx.ErrNotFound
}
func (f *fakeStats) Index(context.Context) (map[string]roster.Model, *shared.ReferenceIndex, error) {
	return nil, nil, nil
}
func (f *fakeStats) StatsOverlappingMonth(context.Context, string) ([]roster.WeeklyStat, error) {
	return nil, nil
}
func (f *fakeStats) RecentStats(_ context.Context, _ string, _ time.Time, limit int) ([]roster.WeeklyStat, error) {
	if len(f.stats) > limit {
		return f.stats[:limit], nil
	}
	return f.stats, nil
}

type staticRate float64

func (r staticRate) Rate(context.Context) float64 { return float64(r) }

func newTestService(repo *fakeRepo, stats *fakeStats) *Service {
	return NewService(repo, stats, staticRate(0.92), testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecomputeStoresProjection(t *testing.T) {
	repo := newFakeRepo()
	repo.weeks = []Week{week(1, 2025, 3, 3)}
	repo.forecasts[1] = WeeklyForecast{ID: 10, WeekID: 1, ProjectedNetUSD: 700}

	svc := newTestService(repo, &fakeStats{})

	got, err := svc.Recompute(context.Background(), "m1", "2025-03", ScenarioExpected)
	require.NoError(t, err)
	require.Equal(t, 700.0, got.ProjectedNetUSD)
	require.Equal(t, 875.0, got.ProjectedGrossUSD)
	require.Equal(t, 0.92, got.FxRateUsed)
	require.Equal(t, 1, repo.upserts)
}

func TestRecomputeLockedConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.weeks = []Week{week(1, 2025, 3, 3)}
	repo.stored[key("m1", "2025-03", ScenarioExpected)] = ModelForecast{
		ModelID: "m1", MonthKey: "2025-03", Scenario: ScenarioExpected,
		ProjectedNetUSD: 500, IsLocked: true,
	}

	svc := newTestService(repo, &fakeStats{})

	_, err := svc.Recompute(context.Background(), "m1", "2025-03", ScenarioExpected)
	require.ErrorIs(t, err, httpx.ErrLocked)
	require.Zero(t, repo.upserts)

	// The stored row is untouched.
	stored := repo.stored[key("m1", "2025-03", ScenarioExpected)]
	require.Equal(t, 500.0, stored.ProjectedNetUSD)
}

func TestRecomputePreservesNotes(t *testing.T) {
	repo := newFakeRepo()
	repo.weeks = []Week{week(1, 2025, 3, 3)}
	repo.forecasts[1] = WeeklyForecast{ID: 10, WeekID: 1, ProjectedNetUSD: 700}
	repo.stored[key("m1", "2025-03", ScenarioExpected)] = ModelForecast{
		ModelID: "m1", MonthKey: "2025-03", Scenario: ScenarioExpected,
		Notes: "watch churn in week 2",
	}

	svc := newTestService(repo, &fakeStats{})

	got, err := svc.Recompute(context.Background(), "m1", "2025-03", ScenarioExpected)
	require.NoError(t, err)
	require.Equal(t, "watch churn in week 2", got.Notes)
}

func TestRecomputeFallsBackToTrailingActuals(t *testing.T) {
	repo := newFakeRepo()
	repo.weeks = []Week{week(1, 2025, 3, 3)}

	gross := func(v float64) *float64 { return &v }
	stats := &fakeStats{stats: []roster.WeeklyStat{
		{GrossRevenue: gross(1000)},
		{GrossRevenue: gross(1000)},
	}}

	svc := newTestService(repo, stats)

	got, err := svc.Recompute(context.Background(), "m1", "2025-03", ScenarioAggressive)
	require.NoError(t, err)
	// Net from gross actuals at a 20% platform fee is 800; the fallback
	// ignores the aggressive multiplier.
	require.Equal(t, 800.0, got.ProjectedNetUSD)
	require.Equal(t, SourceAuto, got.SourceType)
}

func TestRecomputeValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStats{})

	_, err := svc.Recompute(context.Background(), "", "2025-03", ScenarioExpected)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Recompute(context.Background(), "m1", "2025-03", Scenario("wild"))
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Recompute(context.Background(), "m1", "March 2025", ScenarioExpected)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateNotesOnLockedRow(t *testing.T) {
	repo := newFakeRepo()
	repo.stored[key("m1", "2025-03", ScenarioExpected)] = ModelForecast{
		ModelID: "m1", MonthKey: "2025-03", Scenario: ScenarioExpected, IsLocked: true,
	}

	svc := newTestService(repo, &fakeStats{})

	err := svc.UpdateNotes(context.Background(), "m1", "2025-03", ScenarioExpected, "frozen for review")
	require.NoError(t, err)
	require.Equal(t, "frozen for review", repo.stored[key("m1", "2025-03", ScenarioExpected)].Notes)

	err = svc.UpdateNotes(context.Background(), "m2", "2025-03", ScenarioExpected, "x")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
