package security_test

import (
	"strings"
	"testing"

	"github.com/MyResellApp/MyResell/pkg/config"
	"github.com/MyResellApp/MyResell/pkg/security"
)

func fastArgonParams() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery", fastArgonParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash encoding: %s", hash)
	}

	ok, err := security.VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("the real one", fastArgonParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := security.VerifyPassword("a guess", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := security.HashPassword("same input", fastArgonParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := security.HashPassword("same input", fastArgonParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
