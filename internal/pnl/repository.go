package pnl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Repository persists derived P&L rows, upserted by their natural key
// (model + month). Every write carries a full replacement value.
type Repository interface {
	Upsert(ctx context.Context, row Row) error
	Get(ctx context.Context, modelID, monthKey string) (Row, error)
	ListByMonth(ctx context.Context, monthKey string) ([]Row, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, row Row) error {
	expenses, err := json.Marshal(row.Expenses)
	if err != nil {
		return fmt.Errorf("pnl: marshal expenses: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO pnl_rows
		(model_id, month_key, gross_revenue, platform_fee, net_revenue, expenses, total_expenses, net_profit, profit_margin_pct, margin_band, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (model_id, month_key) DO UPDATE SET
			gross_revenue = EXCLUDED.gross_revenue,
			platform_fee = EXCLUDED.platform_fee,
			net_revenue = EXCLUDED.net_revenue,
			expenses = EXCLUDED.expenses,
			total_expenses = EXCLUDED.total_expenses,
			net_profit = EXCLUDED.net_profit,
			profit_margin_pct = EXCLUDED.profit_margin_pct,
			margin_band = EXCLUDED.margin_band,
			updated_at = now()`,
		row.ModelID, row.MonthKey, row.GrossRevenue, row.PlatformFee, row.NetRevenue,
		expenses, row.TotalExpenses, row.NetProfit, row.ProfitMarginPct, row.MarginBand)
	if err != nil {
		return fmt.Errorf("pnl: upsert %s %s: %w", row.ModelID, row.MonthKey, err)
	}
	return nil
}

const rowColumns = `model_id, month_key, gross_revenue, platform_fee, net_revenue, expenses, total_expenses, net_profit, profit_margin_pct, margin_band`

func scanRow(src pgx.Row) (Row, error) {
	var (
		row      Row
		expenses []byte
	)
	err := src.Scan(&row.ModelID, &row.MonthKey, &row.GrossRevenue, &row.PlatformFee, &row.NetRevenue,
		&expenses, &row.TotalExpenses, &row.NetProfit, &row.ProfitMarginPct, &row.MarginBand)
	if err != nil {
		return Row{}, err
	}
	if len(expenses) > 0 {
		if err := json.Unmarshal(expenses, &row.Expenses); err != nil {
			return Row{}, fmt.Errorf("pnl: unmarshal expenses: %w", err)
		}
	}
	return row, nil
}

func (r *repository) Get(ctx context.Context, modelID, monthKey string) (Row, error) {
	row, err := scanRow(r.db.QueryRow(ctx, `SELECT `+rowColumns+` FROM pnl_rows WHERE model_id = $1 AND month_key = $2`, modelID, monthKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, httpx.ErrNotFound
	}
	if err != nil {
		return Row{}, fmt.Errorf("pnl: get %s %s: %w", modelID, monthKey, err)
	}
	return row, nil
}

func (r *repository) ListByMonth(ctx context.Context, monthKey string) ([]Row, error) {
	rows, err := r.db.Query(ctx, `SELECT `+rowColumns+` FROM pnl_rows WHERE month_key = $1 ORDER BY model_id`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("pnl: list %s: %w", monthKey, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
