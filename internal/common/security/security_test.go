package security

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("length = %d, want 8", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Errorf("code %q contains %q, which is outside the alphabet", code, r)
		}
	}

	// Non-positive lengths fall back to the default.
	code, err = GenerateCode(0)
	if err != nil {
		t.Fatalf("GenerateCode(0) failed: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("fallback length = %d, want 8", len(code))
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPasswordHash("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
