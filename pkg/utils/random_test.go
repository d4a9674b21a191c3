package utils

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestRandomCode(t *testing.T) {
	for _, n := range []int{0, 1, 6, 32} {
		code := RandomCode(n)
		if len(code) != n {
			t.Fatalf("RandomCode(%d) length = %d", n, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(CodeAlphabet, r) {
				t.Fatalf("RandomCode(%d) = %q contains %q outside alphabet", n, code, r)
			}
		}
	}
}

func TestRandomCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[RandomCode(8)] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected mostly unique codes, got %d of 50", len(seen))
	}
}

func TestRandomToken(t *testing.T) {
	token := RandomToken("ct1")
	rest, ok := strings.CutPrefix(token, "ct1_")
	if !ok {
		t.Fatalf("token %q has no prefix", token)
	}
	raw, err := base64.RawURLEncoding.DecodeString(rest)
	if err != nil {
		t.Fatalf("token body is not base64url: %v", err)
	}
	if len(raw) != 24 {
		t.Errorf("token body = %d bytes, want 24", len(raw))
	}
	if RandomToken("ct1") == token {
		t.Error("two tokens are equal")
	}
}
