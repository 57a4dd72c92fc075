package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aurora-agency/aurora-backoffice/internal/basis"
	"github.com/aurora-agency/aurora-backoffice/internal/comp"
	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/prorate"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
	"github.com/aurora-agency/aurora-backoffice/internal/team"
)

// RateProvider supplies the EUR-per-USD rate for a computation.
type RateProvider interface {
	Rate(ctx context.Context) float64
}

// Service orchestrates payout run computation. It gathers a month's basis
// entries, the team roster, and each model's prorated net revenue, runs the
// aggregation, and snapshots the result as a run.
type Service struct {
	repo           Repository
	entries        basis.Repository
	people         team.Repository
	models         roster.Repository
	rates          RateProvider
	skips          basis.SkipCounter
	platformFeePct float64
	logger         *slog.Logger
}

// NewService constructs the service.
func NewService(repo Repository, entries basis.Repository, people team.Repository,
	models roster.Repository, rates RateProvider, skips basis.SkipCounter,
	platformFeePct float64, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		entries:        entries,
		people:         people,
		models:         models,
		rates:          rates,
		skips:          skips,
		platformFeePct: platformFeePct,
		logger:         logger,
	}
}

// Compute runs one aggregation pass for the month and saves it. A run that
// has moved past DRAFT is frozen; recomputing it is a conflict.
func (s *Service) Compute(ctx context.Context, monthKey string) (RunWithLines, error) {
	if _, err := shared.ParseMonthKey(monthKey); err != nil {
		return RunWithLines{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	runID := uuid.New()
	existing, err := s.repo.GetByMonth(ctx, monthKey)
	switch {
	case err == nil:
		if existing.Status != StatusDraft {
			return RunWithLines{}, fmt.Errorf("%w: run %s is %s", httpx.ErrLocked, monthKey, existing.Status)
		}
		runID = existing.ID
	case errors.Is(err, httpx.ErrNotFound):
		// First run for this month.
	default:
		return RunWithLines{}, err
	}

	// The four inputs are independent reads; fetch them concurrently.
	var (
		entries  []basis.Entry
		people   map[string]team.Person
		refs     *shared.ReferenceIndex
		schemes  map[string]comp.Scheme
		modelNet map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.entries.ListByMonth(gctx, monthKey)
		return err
	})
	g.Go(func() error {
		var err error
		people, refs, err = s.people.Index(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		schemes, err = s.modelSchemes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		modelNet, err = s.modelNetRevenue(gctx, monthKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return RunWithLines{}, err
	}

	rate := s.rates.Rate(ctx)
	result := basis.Aggregate(basis.Input{
		MonthKey:        monthKey,
		Entries:         entries,
		People:          people,
		Refs:            refs,
		Schemes:         schemes,
		ModelNetRevenue: modelNet,
		Rate:            rate,
	}, s.skips)

	run := Run{
		ID:       runID,
		MonthKey: monthKey,
		Status:   StatusDraft,
		FxRate:   rate,
		Skipped:  result.Skipped,
	}
	for _, line := range result.Lines {
		run.TotalUSD += line.Amount.USD
		run.TotalEUR += line.Amount.EUR
	}
	run.TotalUSD = fx.Round2(run.TotalUSD)
	run.TotalEUR = fx.Round2(run.TotalEUR)

	if err := s.repo.Save(ctx, run, result.Lines); err != nil {
		return RunWithLines{}, err
	}
	if s.logger != nil {
		s.logger.Info("payout run computed",
			slog.String("month", monthKey),
			slog.Int("lines", len(result.Lines)),
			slog.Int("skipped", result.Skipped),
			slog.Float64("total_usd", run.TotalUSD))
	}
	return RunWithLines{Run: run, Lines: result.Lines}, nil
}

// Get returns a month's run with its lines.
func (s *Service) Get(ctx context.Context, monthKey string) (RunWithLines, error) {
	run, err := s.repo.GetByMonth(ctx, monthKey)
	if err != nil {
		return RunWithLines{}, err
	}
	lines, err := s.repo.Lines(ctx, run.ID)
	if err != nil {
		return RunWithLines{}, err
	}
	return RunWithLines{Run: run, Lines: lines}, nil
}

// List returns all runs, newest month first, without lines.
func (s *Service) List(ctx context.Context) ([]Run, error) {
	return s.repo.List(ctx)
}

// AdvanceStatus moves a month's run one step forward in the workflow.
func (s *Service) AdvanceStatus(ctx context.Context, monthKey string, next Status) (Run, error) {
	run, err := s.repo.GetByMonth(ctx, monthKey)
	if err != nil {
		return Run{}, err
	}
	if err := run.Advance(next); err != nil {
		return Run{}, err
	}
	if err := s.repo.UpdateStatus(ctx, run.ID, run.Status); err != nil {
		return Run{}, err
	}
	run.UpdatedAt = time.Now().UTC()
	return run, nil
}

// modelSchemes maps person ID to compensation scheme. A model's roster row
// shares its team member ID, so the two indexes join on ID directly.
func (s *Service) modelSchemes(ctx context.Context) (map[string]comp.Scheme, error) {
	models, _, err := s.models.Index(ctx)
	if err != nil {
		return nil, err
	}
	schemes := make(map[string]comp.Scheme, len(models))
	for id, m := range models {
		schemes[id] = m.Scheme()
	}
	return schemes, nil
}

// modelNetRevenue prorates every weekly stat touching the month into it and
// sums per model, at full precision.
func (s *Service) modelNetRevenue(ctx context.Context, monthKey string) (map[string]float64, error) {
	stats, err := s.models.StatsOverlappingMonth(ctx, monthKey)
	if err != nil {
		return nil, err
	}
	net := make(map[string]float64)
	for _, st := range stats {
		share, err := prorate.WeekShareInMonth(st.WeekStart, st.WeekEnd, monthKey)
		if err != nil {
			return nil, fmt.Errorf("payout: stat %d share: %w", st.ID, err)
		}
		net[st.ModelID] += st.NetUSD(s.platformFeePct) * share
	}
	return net, nil
}
