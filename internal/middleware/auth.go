// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/back2u/back2u/internal/models"
)

type ctxKey string

const emailKey ctxKey = "userEmail"

// TokenResolver resolves a bearer token to the email of the user it was
// issued to.
type TokenResolver interface {
	Resolve(token string) (string, bool)
}

// UserFinder looks up a stored user by email.
type UserFinder interface {
	UserByEmail(ctx context.Context, email string) (models.User, bool, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It expects an "Authorization: Bearer <token>" header whose token was
// issued at login. On success the owning user's email is stored in the
// request context for downstream handlers.
func BearerAuth(sessions TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}
			email, ok := sessions.Resolve(token)
			if !ok {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is a middleware that rejects requests whose authenticated
// user does not hold the admin role. It must run after BearerAuth.
func RequireAdmin(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}
			user, found, err := users.UserByEmail(r.Context(), email)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !found || user.Role != models.RoleAdmin {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext extracts the authenticated user's email from the request
// context. Returns an empty string if not found.
func EmailFromContext(ctx context.Context) string {
	val := ctx.Value(emailKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithEmail returns a copy of ctx carrying email as the authenticated user.
// Exposed for handler tests.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}
