package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// Repository reads team members from the record store.
type Repository interface {
	List(ctx context.Context) ([]Person, error)
	Get(ctx context.Context, id string) (Person, error)
	// Index returns every person keyed by record ID together with the
	// legacy-numeric lookup table used to resolve old references.
	Index(ctx context.Context) (map[string]Person, *shared.ReferenceIndex, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const personColumns = `id, name, role, department, payout_type, payout_percentage, payout_flat_fee, payout_frequency, legacy_row_id, created_at`

func scanPerson(row pgx.Row) (Person, error) {
	var p Person
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.Department, &p.PayoutType,
		&p.PayoutPct, &p.PayoutFlatFee, &p.PayoutFrequency, &p.LegacyRowID, &p.CreatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context) ([]Person, error) {
	rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM team_members ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("team: list: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("team: scan: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM team_members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Person{}, httpx.ErrNotFound
	}
	if err != nil {
		return Person{}, fmt.Errorf("team: get %s: %w", id, err)
	}
	return p, nil
}

func (r *repository) Index(ctx context.Context) (map[string]Person, *shared.ReferenceIndex, error) {
	people, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]Person, len(people))
	legacy := make(map[int64]string)
	for _, p := range people {
		byID[p.ID] = p
		if p.LegacyRowID != nil {
			legacy[*p.LegacyRowID] = p.ID
		}
	}
	return byID, shared.NewReferenceIndex(legacy), nil
}
