package basis

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// Repository reads a month's basis entries from the record store.
type Repository interface {
	ListByMonth(ctx context.Context, monthKey string) ([]Entry, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByMonth(ctx context.Context, monthKey string) ([]Entry, error) {
	if _, err := shared.ParseMonthKey(monthKey); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	rows, err := r.db.Query(ctx, `SELECT e.id, e.month_key, e.person_id, e.legacy_person_row, e.basis_type, e.amount_usd, e.amount_eur, e.notes, e.created_at
		FROM basis_entries e
		WHERE e.month_key = $1
		ORDER BY e.id`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("basis: list %s: %w", monthKey, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			personID  *string
			legacyRow *int64
		)
		if err := rows.Scan(&e.ID, &e.MonthKey, &personID, &legacyRow, &e.Type, &e.AmountUSD, &e.AmountEUR, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("basis: scan: %w", err)
		}
		switch {
		case personID != nil && *personID != "":
			e.Person = shared.NewLinkedReference(*personID)
		case legacyRow != nil:
			e.Person = shared.NewLegacyReference(*legacyRow)
		}
		e.Directives = ParseNoteDirectives(e.Notes)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
