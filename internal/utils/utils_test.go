package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("42", 0); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := AtoiDefault("", 10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := AtoiDefault("x", 5); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("7"); !ok || id != 7 {
		t.Fatalf("expected 7, got %d ok=%v", id, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		if _, ok := ParseID(bad); ok {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}
