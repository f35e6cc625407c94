package alphabet

import "testing"

func TestPresets(t *testing.T) {
	cases := map[string]string{
		"default": "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-",
		"digits":  "0123456789",
		"numbers": "0123456789",
		"letters": "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"hex":     "0123456789ABCDEF",
	}
	for name, want := range cases {
		if got := string(Resolve(name)); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLiteralFallbackIsUppercased(t *testing.T) {
	if got := string(Resolve("abXY9")); got != "ABXY9" {
		t.Errorf("Resolve literal = %q, want %q", got, "ABXY9")
	}
}
