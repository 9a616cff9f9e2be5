package security

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))

	token, exp, err := Generate(opts, "u1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" || exp.Before(time.Now()) {
		t.Fatalf("token=%q exp=%v", token, exp)
	}

	id, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.Username != "alice" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("key-a")), "u1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("key-b")), token); err == nil {
		t.Fatalf("token signed with another key verified")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))

	claims := jwtlib.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(opts.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(opts, token); err == nil {
		t.Fatalf("expired token verified")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	if _, err := Verify(opts, "not.a.token"); err == nil {
		t.Fatalf("garbage token verified")
	}
}

func TestUsernameFallsBackToSubject(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	token, _, err := Generate(opts, "u1", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Username != "u1" {
		t.Fatalf("username = %q, want fallback to sub", id.Username)
	}
}

func TestUnsupportedAlgRefused(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	opts.Alg = "RS256"
	if _, _, err := Generate(opts, "u1", "alice"); err == nil {
		t.Fatalf("asymmetric alg accepted")
	}
}
