package shared

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Reference is a link to a person or model record as stored upstream. The
// hosted table store represents links as one-element arrays of record IDs,
// but rows migrated from the legacy sheet carry a bare numeric instead.
// Both forms decode into this union; callers resolve to a canonical record
// ID at the data-model boundary so the computation core never sees it.
type Reference struct {
	LinkedID      string
	LegacyNumeric int64
	hasLegacy     bool
}

// NewLinkedReference builds a reference from a store record ID.
func NewLinkedReference(id string) Reference {
	return Reference{LinkedID: id}
}

// NewLegacyReference builds a reference from a legacy numeric row ID.
func NewLegacyReference(n int64) Reference {
	return Reference{LegacyNumeric: n, hasLegacy: true}
}

// IsZero reports whether the reference carries no link at all.
func (r Reference) IsZero() bool {
	return r.LinkedID == "" && !r.hasLegacy
}

// UnmarshalJSON accepts ["recXXX"], "recXXX", or a bare number.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) > 0 {
			r.LinkedID = arr[0]
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.LinkedID = s
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		r.LegacyNumeric = n
		r.hasLegacy = true
		return nil
	}
	return fmt.Errorf("shared: unsupported reference encoding %s", string(data))
}

// MarshalJSON always emits the linked-array form.
func (r Reference) MarshalJSON() ([]byte, error) {
	if r.LinkedID != "" {
		return json.Marshal([]string{r.LinkedID})
	}
	if r.hasLegacy {
		return json.Marshal(r.LegacyNumeric)
	}
	return []byte("null"), nil
}

// ReferenceIndex resolves references to canonical record IDs. Legacy numeric
// rows are looked up through the migration table the store maintains.
type ReferenceIndex struct {
	legacy map[int64]string
}

// NewReferenceIndex builds an index from legacy-numeric to record ID.
func NewReferenceIndex(legacy map[int64]string) *ReferenceIndex {
	return &ReferenceIndex{legacy: legacy}
}

// Resolve returns the canonical record ID, or "" when the reference is
// dangling. Dangling references are the caller's silent-skip path, not an
// error.
func (ix *ReferenceIndex) Resolve(r Reference) string {
	if r.LinkedID != "" {
		return r.LinkedID
	}
	if r.hasLegacy {
		if ix != nil && ix.legacy != nil {
			if id, ok := ix.legacy[r.LegacyNumeric]; ok {
				return id
			}
		}
		return ""
	}
	return ""
}

// String renders the reference for logs.
func (r Reference) String() string {
	if r.LinkedID != "" {
		return r.LinkedID
	}
	if r.hasLegacy {
		return "legacy:" + strconv.FormatInt(r.LegacyNumeric, 10)
	}
	return "<none>"
}
