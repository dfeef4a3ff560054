package session

import "testing"

func TestIssueAndResolve(t *testing.T) {
	m := NewManager()

	token := m.Issue("demo@back2u.com")
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	email, ok := m.Resolve(token)
	if !ok || email != "demo@back2u.com" {
		t.Errorf("Resolve = %q, %v; want demo@back2u.com, true", email, ok)
	}

	if _, ok := m.Resolve("unknown"); ok {
		t.Error("expected unknown token to not resolve")
	}
}

func TestIssue_TokensAreUnique(t *testing.T) {
	m := NewManager()
	a := m.Issue("a@x.com")
	b := m.Issue("a@x.com")
	if a == b {
		t.Error("expected distinct tokens per login")
	}
}

func TestRevoke(t *testing.T) {
	m := NewManager()
	token := m.Issue("a@x.com")

	m.Revoke(token)
	if _, ok := m.Resolve(token); ok {
		t.Error("expected revoked token to not resolve")
	}

	m.Revoke("unknown") // no-op
}

func TestRevokeEmail_InvalidatesAllSessions(t *testing.T) {
	m := NewManager()
	a := m.Issue("gone@x.com")
	b := m.Issue("gone@x.com")
	keep := m.Issue("stay@x.com")

	m.RevokeEmail("gone@x.com")

	if _, ok := m.Resolve(a); ok {
		t.Error("expected first token to be revoked")
	}
	if _, ok := m.Resolve(b); ok {
		t.Error("expected second token to be revoked")
	}
	if _, ok := m.Resolve(keep); !ok {
		t.Error("expected other user's token to survive")
	}
}
