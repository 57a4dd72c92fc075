// Package basis reduces a month's raw financial facts into per-person
// payout inputs with role-based bucketing.
package basis

import (
	"time"

	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// EntryType classifies one basis entry.
type EntryType string

const (
	TypeChatterSales EntryType = "chatter_sales"
	TypeBonus        EntryType = "bonus"
	TypeAdjustment   EntryType = "adjustment"
	TypeFine         EntryType = "fine"
	TypeHourly       EntryType = "hourly"
)

// Entry is one atomic financial fact for a person in a month. Exactly one
// of the amounts is the authoritative input; the store backfills the other
// at write time, so both are populated on read.
type Entry struct {
	ID        int64            `json:"id"`
	MonthKey  string           `json:"month_key"`
	Person    shared.Reference `json:"person_id"`
	Type      EntryType        `json:"basis_type"`
	AmountUSD *float64         `json:"amount_usd,omitempty"`
	AmountEUR *float64         `json:"amount_eur,omitempty"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`

	// Directives is the parsed side channel of Notes, computed once at
	// ingestion and never re-parsed downstream.
	Directives NoteDirectives `json:"-"`
}

// IsFine reports whether the entry reduces a payout: either a genuine fine
// row or an adjustment flagged through the reserved notes prefix.
func (e Entry) IsFine() bool {
	if e.Type == TypeFine {
		return true
	}
	return e.Type == TypeAdjustment && e.Directives.IsFine
}
