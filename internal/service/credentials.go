package service

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier abstracts how a claimed password is checked against a
// stored credential. Stored credentials are never plaintext.
type CredentialVerifier interface {
	// Hash derives the storable credential for a plaintext password.
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored credential.
	Verify(stored, password string) bool
}

// BcryptVerifier implements CredentialVerifier with salted bcrypt hashes.
type BcryptVerifier struct {
	// Cost is the bcrypt work factor. Zero selects bcrypt.DefaultCost.
	Cost int
}

// Hash returns the bcrypt hash of password.
func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the bcrypt hash in stored.
func (v BcryptVerifier) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
