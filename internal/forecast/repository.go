package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// Repository is the store access the forecast service needs.
type Repository interface {
	WeeksOverlappingMonth(ctx context.Context, monthKey string) ([]Week, error)
	WeeklyForecasts(ctx context.Context, modelID string, weekIDs []int64) (map[int64]WeeklyForecast, error)
	Get(ctx context.Context, modelID, monthKey string, scenario Scenario) (ModelForecast, error)
	Upsert(ctx context.Context, f ModelForecast) error
	UpdateNotes(ctx context.Context, modelID, monthKey string, scenario Scenario, notes string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) WeeksOverlappingMonth(ctx context.Context, monthKey string) ([]Week, error) {
	first, last, err := shared.MonthRange(monthKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	rows, err := r.db.Query(ctx, `SELECT id, start_date, end_date FROM weeks
		WHERE start_date <= $1 AND end_date >= $2
		ORDER BY start_date, id`, last, first)
	if err != nil {
		return nil, fmt.Errorf("forecast: weeks for %s: %w", monthKey, err)
	}
	defer rows.Close()

	var weeks []Week
	for rows.Next() {
		var w Week
		if err := rows.Scan(&w.ID, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("forecast: scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (r *repository) WeeklyForecasts(ctx context.Context, modelID string, weekIDs []int64) (map[int64]WeeklyForecast, error) {
	if len(weekIDs) == 0 {
		return map[int64]WeeklyForecast{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, model_id, week_id, projected_net_usd, source_type, created_at
		FROM weekly_forecasts
		WHERE model_id = $1 AND week_id = ANY($2)
		ORDER BY week_id, id`, modelID, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("forecast: weekly forecasts for %s: %w", modelID, err)
	}
	defer rows.Close()

	out := make(map[int64]WeeklyForecast)
	for rows.Next() {
		var wf WeeklyForecast
		if err := rows.Scan(&wf.ID, &wf.ModelID, &wf.WeekID, &wf.ProjectedNetUSD, &wf.SourceType, &wf.CreatedAt); err != nil {
			return nil, fmt.Errorf("forecast: scan weekly forecast: %w", err)
		}
		// Later rows for the same week replace earlier ones.
		out[wf.WeekID] = wf
	}
	return out, rows.Err()
}

const forecastColumns = `model_id, month_key, scenario, projected_net_usd, projected_gross_usd, projected_net_eur, projected_gross_eur, fx_rate_used, source_type, is_locked, notes, updated_at`

func (r *repository) Get(ctx context.Context, modelID, monthKey string, scenario Scenario) (ModelForecast, error) {
	var f ModelForecast
	err := r.db.QueryRow(ctx, `SELECT `+forecastColumns+` FROM model_forecasts
		WHERE model_id = $1 AND month_key = $2 AND scenario = $3`, modelID, monthKey, scenario).
		Scan(&f.ModelID, &f.MonthKey, &f.Scenario, &f.ProjectedNetUSD, &f.ProjectedGrossUSD,
			&f.ProjectedNetEUR, &f.ProjectedGrossEUR, &f.FxRateUsed, &f.SourceType, &f.IsLocked, &f.Notes, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ModelForecast{}, httpx.ErrNotFound
	}
	if err != nil {
		return ModelForecast{}, fmt.Errorf("forecast: get %s %s %s: %w", modelID, monthKey, scenario, err)
	}
	return f, nil
}

func (r *repository) Upsert(ctx context.Context, f ModelForecast) error {
	// is_locked is deliberately left out of the update list: locking is an
	// operator action, never a side effect of recompute.
	_, err := r.db.Exec(ctx, `INSERT INTO model_forecasts
		(model_id, month_key, scenario, projected_net_usd, projected_gross_usd, projected_net_eur, projected_gross_eur, fx_rate_used, source_type, is_locked, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10, $11)
		ON CONFLICT (model_id, month_key, scenario) DO UPDATE SET
			projected_net_usd = EXCLUDED.projected_net_usd,
			projected_gross_usd = EXCLUDED.projected_gross_usd,
			projected_net_eur = EXCLUDED.projected_net_eur,
			projected_gross_eur = EXCLUDED.projected_gross_eur,
			fx_rate_used = EXCLUDED.fx_rate_used,
			source_type = EXCLUDED.source_type,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		f.ModelID, f.MonthKey, f.Scenario, f.ProjectedNetUSD, f.ProjectedGrossUSD,
		f.ProjectedNetEUR, f.ProjectedGrossEUR, f.FxRateUsed, f.SourceType, f.Notes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("forecast: upsert %s %s %s: %w", f.ModelID, f.MonthKey, f.Scenario, err)
	}
	return nil
}

func (r *repository) UpdateNotes(ctx context.Context, modelID, monthKey string, scenario Scenario, notes string) error {
	tag, err := r.db.Exec(ctx, `UPDATE model_forecasts SET notes = $4, updated_at = now()
		WHERE model_id = $1 AND month_key = $2 AND scenario = $3`, modelID, monthKey, scenario, notes)
	if err != nil {
		return fmt.Errorf("forecast: update notes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
