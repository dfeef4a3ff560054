// Package http provides HTTP handlers for the lost & found API: identity,
// reports, notifications, admin management and reverse geocoding.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/back2u/back2u/internal/middleware"
	"github.com/back2u/back2u/internal/models"
)

// IdentityService defines the identity operations required by the HTTP
// handlers.
type IdentityService interface {
	// Register creates a new account with role "user".
	Register(ctx context.Context, username, email, password string) (models.User, error)
	// Login verifies the credentials and activates the session.
	Login(ctx context.Context, email, password string) (bool, error)
	// Logout clears the session.
	Logout(ctx context.Context) error
	// UserByEmail returns the stored user with the given email.
	UserByEmail(ctx context.Context, email string) (models.User, bool, error)
	// ToggleDarkMode flips the dark-mode preference and returns the new value.
	ToggleDarkMode(ctx context.Context) (bool, error)
}

// SessionStore issues and revokes bearer tokens.
type SessionStore interface {
	Issue(email string) string
	Revoke(token string)
}

// IdentityHandler handles registration, login, logout and preferences.
type IdentityHandler struct {
	// Identity performs the underlying identity operations.
	Identity IdentityService
	// Sessions issues bearer tokens at login and revokes them at logout.
	Sessions SessionStore
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is a stored user without the credential field.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Register handles user registration requests.
// It validates the signup fields, rejects an already registered email with
// 409 and responds with the created user. The uniqueness check lives here,
// not in the identity service.
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "username, email and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		http.Error(w, "passwords do not match", http.StatusBadRequest)
		return
	}

	_, exists, err := h.Identity.UserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	user, err := h.Identity.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toUserResponse(user))
}

// Login handles credential login requests. On success it responds with a
// bearer token and the user; on bad credentials it responds 401 and leaves
// the session untouched.
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ok, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	user, _, err := h.Identity.UserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": h.Sessions.Issue(user.Email),
		"user":  toUserResponse(user),
	})
}

// Logout revokes the presented bearer token and clears the session.
func (h *IdentityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		h.Sessions.Revoke(token)
	}
	if err := h.Identity.Logout(r.Context()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleDarkMode flips the global dark-mode preference and responds with
// the new value.
func (h *IdentityHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.Identity.ToggleDarkMode(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"darkMode": enabled})
}

// currentUser resolves the authenticated user of the request.
func currentUser(r *http.Request, identity IdentityService) (models.User, bool, error) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		return models.User{}, false, nil
	}
	return identity.UserByEmail(r.Context(), email)
}
