package roster

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

// Repository reads models and their weekly stats from the record store.
type Repository interface {
	List(ctx context.Context) ([]Model, error)
	Get(ctx context.Context, id string) (Model, error)
	Index(ctx context.Context) (map[string]Model, *shared.ReferenceIndex, error)
	// StatsOverlappingMonth returns every weekly stat whose interval
	// touches the keyed month, across all models.
	StatsOverlappingMonth(ctx context.Context, monthKey string) ([]WeeklyStat, error)
	// RecentStats returns the most recent weekly stats for one model whose
	// weeks ended before the given date, newest first, capped at limit.
	RecentStats(ctx context.Context, modelID string, before time.Time, limit int) ([]WeeklyStat, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const modelColumns = `id, name, status, compensation_type, creator_payout_pct, salary_usd, salary_eur,
	deal_threshold, deal_flat_under_threshold_usd, deal_flat_under_threshold_eur, deal_percent_above_threshold,
	legacy_row_id, created_at`

func scanModel(row pgx.Row) (Model, error) {
	var m Model
	err := row.Scan(&m.ID, &m.Name, &m.Status, &m.CompensationType, &m.CreatorPayoutPct,
		&m.SalaryUSD, &m.SalaryEUR, &m.DealThreshold, &m.DealFlatUSD, &m.DealFlatEUR,
		&m.DealPercentAbove, &m.LegacyRowID, &m.CreatedAt)
	return m, err
}

func (r *repository) List(ctx context.Context) ([]Model, error) {
	rows, err := r.db.Query(ctx, `SELECT `+modelColumns+` FROM models ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("roster: list: %w", err)
	}
	defer rows.Close()

	var models []Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("roster: scan: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Model, error) {
	m, err := scanModel(r.db.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Model{}, httpx.ErrNotFound
	}
	if err != nil {
		return Model{}, fmt.Errorf("roster: get %s: %w", id, err)
	}
	return m, nil
}

func (r *repository) Index(ctx context.Context) (map[string]Model, *shared.ReferenceIndex, error) {
	models, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]Model, len(models))
	legacy := make(map[int64]string)
	for _, m := range models {
		byID[m.ID] = m
		if m.LegacyRowID != nil {
			legacy[*m.LegacyRowID] = m.ID
		}
	}
	return byID, shared.NewReferenceIndex(legacy), nil
}

const statColumns = `id, model_id, start_date, end_date, gross_revenue, net_revenue`

func (r *repository) StatsOverlappingMonth(ctx context.Context, monthKey string) ([]WeeklyStat, error) {
	first, last, err := shared.MonthRange(monthKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+statColumns+` FROM weekly_model_stats
		WHERE start_date <= $1 AND end_date >= $2
		ORDER BY model_id, start_date, id`, last, first)
	if err != nil {
		return nil, fmt.Errorf("roster: stats for %s: %w", monthKey, err)
	}
	defer rows.Close()
	return collectStats(rows)
}

func (r *repository) RecentStats(ctx context.Context, modelID string, before time.Time, limit int) ([]WeeklyStat, error) {
	rows, err := r.db.Query(ctx, `SELECT `+statColumns+` FROM weekly_model_stats
		WHERE model_id = $1 AND end_date < $2
		ORDER BY end_date DESC, id DESC
		LIMIT $3`, modelID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("roster: recent stats for %s: %w", modelID, err)
	}
	defer rows.Close()
	return collectStats(rows)
}

func collectStats(rows pgx.Rows) ([]WeeklyStat, error) {
	var stats []WeeklyStat
	for rows.Next() {
		var s WeeklyStat
		if err := rows.Scan(&s.ID, &s.ModelID, &s.WeekStart, &s.WeekEnd, &s.GrossRevenue, &s.NetRevenue); err != nil {
			return nil, fmt.Errorf("roster: scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
