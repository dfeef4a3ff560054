// Package session issues and resolves bearer tokens for logged-in users.
// Tokens live in process memory only; the persisted session records in the
// store mirror the most recent login for parity with existing profiles.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager maps bearer tokens to user emails.
type Manager struct {
	mu     sync.Mutex
	tokens map[string]string // token -> email
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{tokens: make(map[string]string)}
}

// Issue creates a new token for email and returns it.
func (m *Manager) Issue(email string) string {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = email
	return token
}

// Resolve returns the email behind token, or false if the token is unknown.
func (m *Manager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, ok := m.tokens[token]
	return email, ok
}

// Revoke invalidates a single token. Revoking an unknown token is a no-op.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

// RevokeEmail invalidates every token of the given user, e.g. when an admin
// deletes the account.
func (m *Manager) RevokeEmail(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, owner := range m.tokens {
		if owner == email {
			delete(m.tokens, token)
		}
	}
}
