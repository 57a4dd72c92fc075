package payout

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var csvHeader = []string{
	"person_id", "person_name", "bucket",
	"basis_total_usd", "bonus_usd", "fine_usd", "hourly_usd",
	"payout_pct", "base_payout_usd", "payout_usd", "payout_eur",
}

// WriteCSV renders a run's lines as CSV for the finance team's spreadsheet
// import. Monetary values keep two decimals with locale-aware grouping.
func WriteCSV(w io.Writer, rw RunWithLines) error {
	p := message.NewPrinter(language.English)
	money := func(v float64) string { return p.Sprintf("%.2f", v) }

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("payout: write csv header: %w", err)
	}
	for _, line := range rw.Lines {
		pct := ""
		if line.PayoutPct != nil {
			pct = p.Sprintf("%.2f", *line.PayoutPct)
		}
		record := []string{
			line.PersonID,
			line.PersonName,
			string(line.Bucket),
			money(line.GrossSales),
			money(line.BonusTotal),
			money(line.FineTotal),
			money(line.HourlyTotal),
			pct,
			money(line.BasePayout),
			money(line.Amount.USD),
			money(line.Amount.EUR),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("payout: write csv line %s: %w", line.PersonID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
