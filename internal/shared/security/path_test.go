package security

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveWithinValidPath(t *testing.T) {
	base := t.TempDir()

	resolved, err := ResolveWithin(base, "example.com", "report-20260801T100130Z.json")
	if err != nil {
		t.Fatalf("ResolveWithin returned error: %v", err)
	}
	expected := filepath.Join(base, "example.com", "report-20260801T100130Z.json")
	if resolved != expected {
		t.Fatalf("expected %s, got %s", expected, resolved)
	}
}

func TestResolveWithinBlocksEscape(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name  string
		elems []string
	}{
		{"single escape", []string{"..", "etc", "passwd"}},
		{"double escape", []string{"..", ".."}},
		{"relative escape", []string{"a", "..", "..", "etc"}},
		{"domain with traversal", []string{"../evil.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWithin(base, tt.elems...)
			if err == nil {
				t.Fatal("expected path escape error")
			}
			if !strings.Contains(err.Error(), "escapes base directory") {
				t.Fatalf("expected escape error, got: %v", err)
			}
		})
	}
}

func TestResolveWithinSafeDotDotInMiddle(t *testing.T) {
	base := t.TempDir()

	// a/b/../c resolves to a/c, still within base
	resolved, err := ResolveWithin(base, "a", "b", "..", "c")
	if err != nil {
		t.Fatalf("unexpected error for safe traversal: %v", err)
	}
	if resolved != filepath.Join(base, "a", "c") {
		t.Fatalf("unexpected resolution: %s", resolved)
	}
}

func TestResolveWithinAbsoluteElementStaysInside(t *testing.T) {
	base := t.TempDir()

	resolved, err := ResolveWithin(base, "/etc/passwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(resolved, base) {
		t.Fatalf("resolved path %s should be within base %s", resolved, base)
	}
}

func TestResolveWithinEmptyBase(t *testing.T) {
	if _, err := ResolveWithin("", "example.com"); err == nil {
		t.Fatal("expected error for empty base directory")
	}
}

func TestResolveWithinNoElements(t *testing.T) {
	base := t.TempDir()

	resolved, err := ResolveWithin(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != base {
		t.Fatalf("expected %s, got %s", base, resolved)
	}
}
