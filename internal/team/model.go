package team

import "time"

// PayoutType enumerates how a team member's base payout is computed.
type PayoutType string

const (
	PayoutPercentage PayoutType = "percentage"
	PayoutFlatFee    PayoutType = "flat_fee"
	PayoutHybrid     PayoutType = "hybrid"
	PayoutNone       PayoutType = "none"
)

// Bucket is the aggregation bucket a person's payout line lands in. Every
// person maps to exactly one bucket.
type Bucket string

const (
	BucketChatter   Bucket = "chatter"
	BucketManager   Bucket = "manager"
	BucketVA        Bucket = "va"
	BucketModel     Bucket = "model"
	BucketAffiliate Bucket = "affiliate"
)

// Buckets lists every bucket in render order.
func Buckets() []Bucket {
	return []Bucket{BucketChatter, BucketManager, BucketVA, BucketModel, BucketAffiliate}
}

// Person is one team member as stored upstream.
type Person struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	Department      string     `json:"department"`
	PayoutType      PayoutType `json:"payout_type"`
	PayoutPct       *float64   `json:"payout_percentage,omitempty"`
	PayoutFlatFee   *float64   `json:"payout_flat_fee,omitempty"`
	PayoutFrequency string     `json:"payout_frequency"`
	LegacyRowID     *int64     `json:"legacy_row_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// managerRoles are the named sub-roles folded into the manager bucket.
var managerRoles = map[string]struct{}{
	"manager":         {},
	"team_lead":       {},
	"account_manager": {},
	"agency_owner":    {},
	"ops_manager":     {},
}

// BucketFor maps a role string to its aggregation bucket.
func BucketFor(role string) Bucket {
	switch role {
	case "chatter":
		return BucketChatter
	case "va", "virtual_assistant":
		return BucketVA
	case "model":
		return BucketModel
	case "affiliate":
		return BucketAffiliate
	}
	if _, ok := managerRoles[role]; ok {
		return BucketManager
	}
	// Unrecognised roles behave as VAs: tracked, never percentage-paid.
	return BucketVA
}

// Bucket returns the aggregation bucket for this person.
func (p Person) Bucket() Bucket {
	return BucketFor(p.Role)
}
