package infra

import (
	"strings"
	"testing"
)

func TestArgon2Verifier_RoundTrip(t *testing.T) {
	encoded, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	v := NewArgon2Verifier()
	if !v.Verify(encoded, "1234") {
		t.Error("correct password did not verify")
	}
	if v.Verify(encoded, "wrong") {
		t.Error("wrong password verified")
	}
}

func TestArgon2Verifier_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestArgon2Verifier_FailsClosed(t *testing.T) {
	v := NewArgon2Verifier()

	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$only-four-parts",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!",
	}
	for _, h := range malformed {
		if v.Verify(h, "1234") {
			t.Errorf("malformed hash %q verified", h)
		}
	}
}
