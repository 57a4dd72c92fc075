package basis

import "testing"

func TestParseNoteDirectivesFinePrefix(t *testing.T) {
	cases := []struct {
		notes string
		want  bool
	}{
		{"FINE: missed three shifts", true},
		{"fine: lateness", true},
		{"  FINE: leading whitespace", true},
		{"refund for FINE issued earlier", false},
		{"", false},
		{"regular bonus note", false},
	}
	for _, tc := range cases {
		if got := ParseNoteDirectives(tc.notes).IsFine; got != tc.want {
			t.Fatalf("ParseNoteDirectives(%q).IsFine = %v want %v", tc.notes, got, tc.want)
		}
	}
}

func TestParseNoteDirectivesPctOverride(t *testing.T) {
	d := ParseNoteDirectives("big push this week\nPCT=35")
	if d.PayoutPctOverride == nil || *d.PayoutPctOverride != 35 {
		t.Fatalf("override = %v want 35", d.PayoutPctOverride)
	}

	d = ParseNoteDirectives("pct=12.5")
	if d.PayoutPctOverride == nil || *d.PayoutPctOverride != 12.5 {
		t.Fatalf("override = %v want 12.5", d.PayoutPctOverride)
	}
}

func TestParseNoteDirectivesIgnoresBadOverrides(t *testing.T) {
	for _, notes := range []string{"PCT=abc", "PCT=-5", "PCT=150", "PCT="} {
		if d := ParseNoteDirectives(notes); d.PayoutPctOverride != nil {
			t.Fatalf("ParseNoteDirectives(%q) accepted override %v", notes, *d.PayoutPctOverride)
		}
	}
}

func TestParseNoteDirectivesLastLineWins(t *testing.T) {
	d := ParseNoteDirectives("PCT=20\nsecond thoughts\nPCT=30")
	if d.PayoutPctOverride == nil || *d.PayoutPctOverride != 30 {
		t.Fatalf("override = %v want 30", d.PayoutPctOverride)
	}
}

func TestAdjustmentIsFineOnlyWithPrefix(t *testing.T) {
	adj := Entry{Type: TypeAdjustment, Notes: "FINE: chargeback"}
	adj.Directives = ParseNoteDirectives(adj.Notes)
	if !adj.IsFine() {
		t.Fatal("prefixed adjustment should classify as fine")
	}

	plain := Entry{Type: TypeAdjustment, Notes: "goodwill credit"}
	plain.Directives = ParseNoteDirectives(plain.Notes)
	if plain.IsFine() {
		t.Fatal("plain adjustment should behave as bonus")
	}
}
