package shared

import (
	"encoding/json"
	"testing"
)

func TestReferenceUnmarshalForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"linked array", `["recAB12"]`, "recAB12"},
		{"bare string", `"recAB12"`, "recAB12"},
		{"empty array", `[]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ref Reference
			if err := json.Unmarshal([]byte(tc.in), &ref); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if ref.LinkedID != tc.want {
				t.Fatalf("LinkedID = %q want %q", ref.LinkedID, tc.want)
			}
		})
	}
}

func TestReferenceLegacyNumericResolution(t *testing.T) {
	var ref Reference
	if err := json.Unmarshal([]byte(`417`), &ref); err != nil {
		t.Fatalf("unmarshal legacy numeric: %v", err)
	}
	ix := NewReferenceIndex(map[int64]string{417: "recLegacy417"})
	if got := ix.Resolve(ref); got != "recLegacy417" {
		t.Fatalf("Resolve = %q want recLegacy417", got)
	}
}

func TestReferenceDanglingResolvesEmpty(t *testing.T) {
	ix := NewReferenceIndex(nil)
	if got := ix.Resolve(NewLegacyReference(99)); got != "" {
		t.Fatalf("expected dangling legacy reference to resolve empty, got %q", got)
	}
	if got := ix.Resolve(Reference{}); got != "" {
		t.Fatalf("expected zero reference to resolve empty, got %q", got)
	}
}
