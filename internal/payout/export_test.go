package payout

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-agency/aurora-backoffice/internal/basis"
	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/team"
)

func TestWriteCSV(t *testing.T) {
	pct := 10.0
	rw := RunWithLines{
		Run: Run{MonthKey: "2025-03"},
		Lines: []basis.PayoutLine{
			{
				PersonID:   "c1",
				PersonName: "Chatter One",
				Bucket:     team.BucketChatter,
				GrossSales: 12500,
				BonusTotal: 50,
				PayoutPct:  &pct,
				BasePayout: 1250,
				Amount:     fx.DualAmount{USD: 1300, EUR: 1196, Rate: 0.92},
			},
			{
				PersonID:   "v1",
				PersonName: "VA One",
				Bucket:     team.BucketVA,
				Amount:     fx.DualAmount{USD: 0, EUR: 0, Rate: 0.92},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rw))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, csvHeader, records[0])
	require.Equal(t, "c1", records[1][0])
	require.Equal(t, "12,500.00", records[1][3])
	require.Equal(t, "10.00", records[1][7])
	require.Equal(t, "1,300.00", records[1][9])
	// No percentage column for people without one.
	require.Equal(t, "", records[2][7])
}
