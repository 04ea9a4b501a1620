package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(DefaultPrefix) + `[a-zA-Z0-9]+$`)

	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if wantLen := len(DefaultPrefix) + Length; len(id) != wantLen {
		t.Errorf("Generate() length = %d, want %d (id=%q)", len(id), wantLen, id)
	}
	if !pattern.MatchString(id) {
		t.Errorf("Generate() = %q, does not match expected charset pattern", id)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix("call-")
	if err != nil {
		t.Fatalf("GenerateWithPrefix() error: %v", err)
	}
	if !strings.HasPrefix(id, "call-") {
		t.Errorf("GenerateWithPrefix() = %q, want prefix %q", id, "call-")
	}
	if wantLen := len("call-") + Length; len(id) != wantLen {
		t.Errorf("GenerateWithPrefix() length = %d, want %d", len(id), wantLen)
	}
}
