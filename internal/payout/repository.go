package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-agency/aurora-backoffice/internal/basis"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/db"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Repository persists payout runs and their lines.
type Repository interface {
	// Save upserts the run by its month key and replaces its lines, in
	// one transaction.
	Save(ctx context.Context, run Run, lines []basis.PayoutLine) error
	GetByMonth(ctx context.Context, monthKey string) (Run, error)
	Lines(ctx context.Context, runID uuid.UUID) ([]basis.PayoutLine, error)
	List(ctx context.Context) ([]Run, error)
	UpdateStatus(ctx context.Context, runID uuid.UUID, status Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Save(ctx context.Context, run Run, lines []basis.PayoutLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO payout_runs
			(id, month_key, status, fx_rate, total_usd, total_eur, skipped_entries, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			ON CONFLICT (month_key) DO UPDATE SET
				status = EXCLUDED.status,
				fx_rate = EXCLUDED.fx_rate,
				total_usd = EXCLUDED.total_usd,
				total_eur = EXCLUDED.total_eur,
				skipped_entries = EXCLUDED.skipped_entries,
				updated_at = EXCLUDED.updated_at`,
			run.ID, run.MonthKey, run.Status, run.FxRate, run.TotalUSD, run.TotalEUR, run.Skipped, time.Now().UTC())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: payout run for %s", httpx.ErrDuplicate, run.MonthKey)
			}
			return fmt.Errorf("payout: save run %s: %w", run.MonthKey, err)
		}

		// The run's identity is its month; an updated run's ID may differ
		// from the stored one, so lines are keyed by the stored ID.
		var runID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM payout_runs WHERE month_key = $1`, run.MonthKey).Scan(&runID); err != nil {
			return fmt.Errorf("payout: resolve run id for %s: %w", run.MonthKey, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payout_lines WHERE run_id = $1`, runID); err != nil {
			return fmt.Errorf("payout: clear lines for %s: %w", run.MonthKey, err)
		}
		for _, line := range lines {
			_, err := tx.Exec(ctx, `INSERT INTO payout_lines
				(run_id, person_id, person_name, bucket, basis_total, bonus_total, fine_total, hourly_total, payout_pct, base_payout, payout_usd, payout_eur, currency_of_record)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				runID, line.PersonID, line.PersonName, line.Bucket, line.GrossSales, line.BonusTotal,
				line.FineTotal, line.HourlyTotal, line.PayoutPct, line.BasePayout, line.Amount.USD, line.Amount.EUR,
				line.CurrencyOfRecord)
			if err != nil {
				return fmt.Errorf("payout: insert line %s/%s: %w", run.MonthKey, line.PersonID, err)
			}
		}
		return nil
	})
}

const runColumns = `id, month_key, status, fx_rate, total_usd, total_eur, skipped_entries, created_at, updated_at`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.MonthKey, &run.Status, &run.FxRate,
		&run.TotalUSD, &run.TotalEUR, &run.Skipped, &run.CreatedAt, &run.UpdatedAt)
	return run, err
}

func (r *repository) GetByMonth(ctx context.Context, monthKey string) (Run, error) {
	run, err := scanRun(r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM payout_runs WHERE month_key = $1`, monthKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, httpx.ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("payout: get run %s: %w", monthKey, err)
	}
	return run, nil
}

func (r *repository) Lines(ctx context.Context, runID uuid.UUID) ([]basis.PayoutLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT person_id, person_name, bucket, basis_total, bonus_total, fine_total, hourly_total, payout_pct, base_payout, payout_usd, payout_eur, currency_of_record
		FROM payout_lines WHERE run_id = $1 ORDER BY person_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("payout: lines for %s: %w", runID, err)
	}
	defer rows.Close()

	var lines []basis.PayoutLine
	for rows.Next() {
		var line basis.PayoutLine
		if err := rows.Scan(&line.PersonID, &line.PersonName, &line.Bucket, &line.GrossSales,
			&line.BonusTotal, &line.FineTotal, &line.HourlyTotal, &line.PayoutPct,
			&line.BasePayout, &line.Amount.USD, &line.Amount.EUR, &line.CurrencyOfRecord); err != nil {
			return nil, fmt.Errorf("payout: scan line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Run, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+runColumns+` FROM payout_runs ORDER BY month_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("payout: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("payout: scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, runID uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payout_runs SET status = $2, updated_at = now() WHERE id = $1`, runID, status)
	if err != nil {
		return fmt.Errorf("payout: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
