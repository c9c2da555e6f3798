package links

import (
	"strings"
	"testing"
)

func TestNanoidSlugger_Length(t *testing.T) {
	s := NewNanoidSlugger()

	for _, tt := range []struct{ in, want int }{{8, 8}, {1, 1}, {0, defaultSlugLength}, {-5, defaultSlugLength}} {
		code, err := s.Generate(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != tt.want {
			t.Errorf("Generate(%d) gave %q, want length %d", tt.in, code, tt.want)
		}
	}
}

func TestNanoidSlugger_UsesConfiguredAlphabet(t *testing.T) {
	s := &NanoidSlugger{alphabet: "xy"}

	code, err := s.Generate(256)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Trim(code, "xy") != "" {
		t.Fatalf("code %q has characters outside the alphabet", code)
	}
	if !strings.Contains(code, "x") || !strings.Contains(code, "y") {
		t.Errorf("expected both symbols over 256 draws, got %q", code)
	}
}

func TestNanoidSlugger_DefaultIsURLSafeBase62(t *testing.T) {
	if got := NewNanoidSlugger().alphabet; got != base62Alphabet || len(got) != 62 {
		t.Fatalf("default alphabet %q", got)
	}

	code, err := NewNanoidSlugger().Generate(500)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Trim(code, base62Alphabet) != "" {
		t.Errorf("code %q escapes the base62 alphabet", code)
	}
	if err := ValidateShortCode(code[:defaultSlugLength]); err != nil {
		t.Errorf("generated code rejected by ValidateShortCode: %v", err)
	}
}

func TestNanoidSlugger_EmptyAlphabetFails(t *testing.T) {
	if _, err := (&NanoidSlugger{}).Generate(6); err == nil {
		t.Error("expected an error for an empty alphabet")
	}
}
