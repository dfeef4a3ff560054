package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/back2u/back2u/internal/middleware"
	"github.com/back2u/back2u/internal/models"
	"github.com/go-chi/chi/v5"
)

// NotificationService defines the notification operations required by the
// HTTP handlers. LoadForUser activates the given user's list; the mutating
// operations act on the active list.
type NotificationService interface {
	LoadForUser(ctx context.Context, email string) ([]models.Notification, error)
	UnreadCount() int
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// NotificationHandler handles the notification inbox endpoints.
type NotificationHandler struct {
	Notifications NotificationService
}

// NotificationListResponse is the inbox payload: newest-first notifications
// plus the unread count driving the bell badge.
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// List responds with the authenticated user's notifications and unread
// count.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.activate(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(NotificationListResponse{
		Notifications: items,
		UnreadCount:   h.Notifications.UnreadCount(),
	})
}

// MarkAsRead marks one of the user's notifications as read.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}
	if _, err := h.activate(r); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Notifications.MarkAsRead(r.Context(), id); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllAsRead marks every notification of the user as read.
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.activate(r); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Notifications.MarkAllAsRead(r.Context()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll empties the user's notification list.
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.activate(r); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Notifications.ClearAll(r.Context()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activate loads the requesting user's notification list so the mutating
// operations act on it and not on a previously active user's list.
func (h *NotificationHandler) activate(r *http.Request) ([]models.Notification, error) {
	email := middleware.EmailFromContext(r.Context())
	return h.Notifications.LoadForUser(r.Context(), email)
}
