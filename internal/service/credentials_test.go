package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier_RoundTrip(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}

	hash, err := v.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !v.Verify(hash, "admin123") {
		t.Error("expected correct password to verify")
	}
	if v.Verify(hash, "admin124") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestBcryptVerifier_VerifyGarbageHash(t *testing.T) {
	v := BcryptVerifier{}
	if v.Verify("not a bcrypt hash", "whatever") {
		t.Error("expected malformed stored credential to fail verification")
	}
}
