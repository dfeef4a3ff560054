package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminIdentityService defines the user-management operations required by
// the admin endpoints.
type AdminIdentityService interface {
	Users(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
}

// SessionRevoker invalidates every bearer token issued to an email.
type SessionRevoker interface {
	RevokeEmail(email string)
}

// AdminHandler handles the admin-only user management and stats endpoints.
type AdminHandler struct {
	Identity AdminIdentityService
	// Reports feeds the dashboard counters.
	Reports ReportService
	// Sessions is used to cut off a deleted user's live tokens.
	Sessions SessionRevoker
}

// UpdateRoleRequest represents the JSON payload for a role change.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// StatsResponse carries the dashboard counters.
type StatsResponse struct {
	Users           int `json:"users"`
	Reports         int `json:"reports"`
	LostReports     int `json:"lostReports"`
	FoundReports    int `json:"foundReports"`
	VerifiedReports int `json:"verifiedReports"`
}

// ListUsers responds with every registered user, credentials stripped.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Identity.Users(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// DeleteUser removes a user together with their reports and notifications
// and revokes their live sessions. Deleting yourself is refused with 409.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	target, found, err := h.userByID(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	deleted, err := h.Identity.DeleteUser(r.Context(), id)
	if errors.Is(err, service.ErrCannotDeleteSelf) {
		http.Error(w, "cannot delete the currently logged in user", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	h.Sessions.RevokeEmail(target.Email)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUserRole changes a user's role to "user" or "admin".
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	role := models.Role(req.Role)
	if role != models.RoleUser && role != models.RoleAdmin {
		http.Error(w, "role must be \"user\" or \"admin\"", http.StatusBadRequest)
		return
	}

	_, found, err := h.userByID(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	if err := h.Identity.UpdateUserRole(r.Context(), id, role); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats responds with the dashboard counters: registered users plus total,
// lost, found and verified reports.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.Identity.Users(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	reports, err := h.Reports.AllReports(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	stats := StatsResponse{Users: len(users), Reports: len(reports)}
	for _, rep := range reports {
		switch rep.Status {
		case models.StatusLost:
			stats.LostReports++
		case models.StatusFound:
			stats.FoundReports++
		}
		if rep.Verified {
			stats.VerifiedReports++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

func (h *AdminHandler) userByID(ctx context.Context, id int64) (models.User, bool, error) {
	users, err := h.Identity.Users(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
