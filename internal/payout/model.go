// Package payout computes and stores monthly payout runs: one aggregation
// pass over a month's basis entries, snapshotted with the FX rate that was
// in effect.
package payout

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aurora-agency/aurora-backoffice/internal/basis"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Status is a run's position in the payment workflow.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusProcessed Status = "PROCESSED"
	StatusPaid      Status = "PAID"
)

// transitions lists the only legal status moves. A run never goes backwards.
var transitions = map[Status]Status{
	StatusDraft:     StatusProcessed,
	StatusProcessed: StatusPaid,
}

// ValidStatus reports whether s is a known run status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusProcessed, StatusPaid:
		return true
	}
	return false
}

// Run is one computed payout cycle for a month. Lines are stored separately
// and joined on read.
type Run struct {
	ID        uuid.UUID `json:"id"`
	MonthKey  string    `json:"month_key"`
	Status    Status    `json:"status"`
	FxRate    float64   `json:"fx_rate"`
	TotalUSD  float64   `json:"total_usd"`
	TotalEUR  float64   `json:"total_eur"`
	Skipped   int       `json:"skipped_entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Advance moves the run to next, enforcing the forward-only workflow.
func (r *Run) Advance(next Status) error {
	if !ValidStatus(next) {
		return fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, next)
	}
	if transitions[r.Status] != next {
		return fmt.Errorf("%w: cannot move run from %s to %s", httpx.ErrValidation, r.Status, next)
	}
	r.Status = next
	return nil
}

// RunWithLines is the read model the API returns.
type RunWithLines struct {
	Run   Run                `json:"run"`
	Lines []basis.PayoutLine `json:"lines"`
}
