package email

import "testing"

func TestNormalize(t *testing.T) {
	if got := Normalize("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("unexpected normalized address %q", got)
	}
}

func TestValid(t *testing.T) {
	tests := map[string]bool{
		"ada@example.com":      true,
		" ada@example.com ":    true,
		"a.b+c@sub.example.io": true,
		"ada@example":          false,
		"ada example@x.com":    false,
		"@example.com":         false,
		"":                     false,
	}
	for address, want := range tests {
		if got := Valid(address); got != want {
			t.Errorf("Valid(%q) = %v, want %v", address, got, want)
		}
	}
}
