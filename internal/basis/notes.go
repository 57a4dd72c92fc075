package basis

import (
	"strconv"
	"strings"
)

// The notes column doubles as a side channel: operators prefix an
// adjustment with "FINE:" to make it deduct, and a "PCT=<n>" line on a
// sales entry overrides the chatter's payout percentage for that month.
// Both conventions predate this system and survive for compatibility with
// rows the store already holds.
const (
	finePrefix        = "FINE:"
	pctOverridePrefix = "PCT="
)

// NoteDirectives is the structured value extracted from a free-text notes
// field. It is computed once when an entry is loaded.
type NoteDirectives struct {
	IsFine            bool
	PayoutPctOverride *float64
}

// ParseNoteDirectives extracts the reserved directives from a notes string.
// Unparseable or out-of-range override values are ignored rather than
// guessed at.
func ParseNoteDirectives(notes string) NoteDirectives {
	var d NoteDirectives
	trimmed := strings.TrimSpace(notes)
	if len(trimmed) >= len(finePrefix) && strings.EqualFold(trimmed[:len(finePrefix)], finePrefix) {
		d.IsFine = true
	}
	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len(pctOverridePrefix) || !strings.EqualFold(line[:len(pctOverridePrefix)], pctOverridePrefix) {
			continue
		}
		raw := strings.TrimSpace(line[len(pctOverridePrefix):])
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil || pct < 0 || pct > 100 {
			continue
		}
		d.PayoutPctOverride = &pct
	}
	return d
}
