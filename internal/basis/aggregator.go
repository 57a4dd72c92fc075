package basis

import (
	"math"
	"sort"

	"github.com/aurora-agency/aurora-backoffice/internal/comp"
	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
	"github.com/aurora-agency/aurora-backoffice/internal/team"
)

// SkipCounter receives dead-letter notifications for entries the aggregator
// dropped. Dropping is the deliberate policy for partially-migrated data,
// not an error path.
type SkipCounter interface {
	AddBasisSkip(reason string)
}

// CurrencyOfRecord is the currency every aggregation computes in. EUR
// inputs are converted on entry and EUR outputs derived at the end; the
// line records this so downstream consumers never have to guess.
const CurrencyOfRecord = "USD"

// PayoutLine is one person's fully aggregated, currency-resolved payout for
// a month. All monetary fields are rounded to two decimals.
type PayoutLine struct {
	PersonID         string        `json:"person_id"`
	PersonName       string        `json:"person_name"`
	Bucket           team.Bucket   `json:"bucket"`
	GrossSales       float64       `json:"basis_total"`
	BonusTotal       float64       `json:"bonus_total"`
	FineTotal        float64       `json:"fine_total"`
	HourlyTotal      float64       `json:"hourly_total"`
	PayoutPct        *float64      `json:"payout_pct,omitempty"`
	BasePayout       float64       `json:"base_payout"`
	Amount           fx.DualAmount `json:"payout"`
	CurrencyOfRecord string        `json:"currency_of_record"`
}

// Input carries everything one aggregation pass needs. The aggregator is a
// pure function of this struct plus the FX rate inside it.
type Input struct {
	MonthKey string
	Entries  []Entry
	People   map[string]team.Person
	Refs     *shared.ReferenceIndex
	// Schemes and ModelNetRevenue apply to persons in the model bucket,
	// whose base payout comes from their compensation scheme instead of a
	// chatter percentage.
	Schemes         map[string]comp.Scheme
	ModelNetRevenue map[string]float64
	Rate            float64
}

// Result groups the month's payout lines by role bucket. Lines holds the
// same rows in one deterministic flat slice.
type Result struct {
	MonthKey string
	Buckets  map[team.Bucket][]PayoutLine
	Lines    []PayoutLine
	Skipped  int
}

type personAccum struct {
	gross, bonus, fine, hourly float64
	pctOverride                *float64
}

// Aggregate reduces a month's basis entries into one payout line per person.
// Identical input always produces identical output: entries are processed
// in ascending ID order (the store's insertion order, which pins the
// "last override wins" rule) and lines emit sorted by person ID.
func Aggregate(in Input, counter SkipCounter) Result {
	entries := append([]Entry(nil), in.Entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	accums := make(map[string]*personAccum)
	skipped := 0

	for _, e := range entries {
		personID := in.Refs.Resolve(e.Person)
		if personID == "" {
			skipped++
			if counter != nil {
				counter.AddBasisSkip("dangling_person")
			}
			continue
		}
		if _, ok := in.People[personID]; !ok {
			skipped++
			if counter != nil {
				counter.AddBasisSkip("unknown_person")
			}
			continue
		}

		acc := accums[personID]
		if acc == nil {
			acc = &personAccum{}
			accums[personID] = acc
		}

		amt := entryAmountUSD(e, in.Rate)
		switch {
		case e.IsFine():
			// Fines are stored negative; they accumulate as absolute
			// values and are subtracted exactly once at payout time.
			acc.fine += math.Abs(amt)
		case e.Type == TypeChatterSales:
			acc.gross += amt
			if e.Directives.PayoutPctOverride != nil {
				acc.pctOverride = e.Directives.PayoutPctOverride
			}
		case e.Type == TypeBonus, e.Type == TypeAdjustment:
			acc.bonus += amt
		case e.Type == TypeHourly:
			acc.hourly += amt
		default:
			skipped++
			if counter != nil {
				counter.AddBasisSkip("unknown_type")
			}
		}
	}

	ids := make([]string, 0, len(accums))
	for id := range accums {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := Result{
		MonthKey: in.MonthKey,
		Buckets:  make(map[team.Bucket][]PayoutLine),
		Skipped:  skipped,
	}
	for _, id := range ids {
		line := buildLine(id, accums[id], in)
		result.Lines = append(result.Lines, line)
		result.Buckets[line.Bucket] = append(result.Buckets[line.Bucket], line)
	}
	return result
}

func buildLine(personID string, acc *personAccum, in Input) PayoutLine {
	person := in.People[personID]
	bucket := person.Bucket()

	var base float64
	var effectivePct *float64

	if bucket == team.BucketModel {
		base = comp.Evaluate(in.Schemes[personID], in.ModelNetRevenue[personID], in.Rate)
	} else {
		pct := person.PayoutPct
		if acc.pctOverride != nil {
			pct = acc.pctOverride
		}
		effectivePct = pct
		switch person.PayoutType {
		case team.PayoutPercentage:
			base = pctPayout(acc.gross, pct)
		case team.PayoutFlatFee:
			base = flatPayout(person)
		case team.PayoutHybrid:
			base = pctPayout(acc.gross, pct) + flatPayout(person)
		}
	}

	final := base + acc.bonus - acc.fine
	return PayoutLine{
		PersonID:         personID,
		PersonName:       person.Name,
		Bucket:           bucket,
		GrossSales:       fx.Round2(acc.gross),
		BonusTotal:       fx.Round2(acc.bonus),
		FineTotal:        fx.Round2(acc.fine),
		HourlyTotal:      fx.Round2(acc.hourly),
		PayoutPct:        effectivePct,
		BasePayout:       fx.Round2(base),
		Amount:           fx.FromUSD(final, in.Rate),
		CurrencyOfRecord: CurrencyOfRecord,
	}
}

func pctPayout(gross float64, pct *float64) float64 {
	if pct == nil {
		return 0
	}
	return gross * *pct / 100
}

func flatPayout(p team.Person) float64 {
	if p.PayoutFlatFee == nil {
		return 0
	}
	return *p.PayoutFlatFee
}

// entryAmountUSD resolves an entry's USD value at full precision. The
// rounded conversion belongs to the persistence boundary, not here.
func entryAmountUSD(e Entry, rate float64) float64 {
	if e.AmountUSD != nil {
		return *e.AmountUSD
	}
	if e.AmountEUR != nil && rate > 0 {
		return *e.AmountEUR / rate
	}
	return 0
}
