// Package service provides the business logic of the lost & found system:
// identity and sessions, report submission and verification, and per-user
// notifications. Persistence is delegated to repository interfaces over the
// record store.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/back2u/back2u/internal/models"
	"go.uber.org/zap"
)

// isoTimestampLayout matches the ISO-8601 millisecond form used in stored
// records (e.g. 2026-09-01T10:12:13.456Z).
const isoTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NotificationRepository defines the persistence operations required by the
// notification service.
type NotificationRepository interface {
	// ForUser retrieves the notification list of the given user, newest first.
	ForUser(ctx context.Context, email string) ([]models.Notification, error)
	// Save replaces the notification list of the given user.
	Save(ctx context.Context, email string, list []models.Notification) error
	// Prepend inserts a notification at the head of the user's list and
	// returns the updated list.
	Prepend(ctx context.Context, email string, n models.Notification) ([]models.Notification, error)
}

// NotificationDraft carries the caller-supplied fields of a new
// notification; id, timestamp and read state are stamped by the service.
type NotificationDraft struct {
	Type     models.NotificationType
	Title    string
	Message  string
	ItemName string
	ReportID int64
	Status   models.ReportStatus
}

// NotificationService owns per-user notification lists and the in-memory
// unread counter of the active session user.
type NotificationService struct {
	repo NotificationRepository
	log  *zap.Logger

	now func() time.Time

	mu     sync.Mutex
	email  string // active session user, empty when logged out
	items  []models.Notification
	unread int
}

// NewNotificationService constructs a NotificationService using the
// provided repository.
func NewNotificationService(repo NotificationRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log, now: time.Now}
}

// LoadForUser loads the notification list of email from storage and makes
// that user the active one for the in-memory state.
func (s *NotificationService) LoadForUser(ctx context.Context, email string) ([]models.Notification, error) {
	list, err := s.repo.ForUser(ctx, email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
	s.items = list
	s.unread = countUnread(list)
	return append([]models.Notification(nil), list...), nil
}

// Reset clears the in-memory notification state. Called on logout.
func (s *NotificationService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = ""
	s.items = nil
	s.unread = 0
}

// Add stamps and stores a new notification for email, newest first. When
// email is the active session user the in-memory state and unread counter
// are updated as well.
func (s *NotificationService) Add(ctx context.Context, email string, draft NotificationDraft) (models.Notification, error) {
	now := s.now()
	n := models.Notification{
		ID:        now.UnixMilli(),
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
		ItemName:  draft.ItemName,
		ReportID:  draft.ReportID,
		Status:    draft.Status,
		Timestamp: now.UTC().Format(isoTimestampLayout),
		Read:      false,
	}

	updated, err := s.repo.Prepend(ctx, email, n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("add notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == email {
		s.items = updated
		s.unread++
	}
	return n, nil
}

// Notifications returns a snapshot of the active user's notification list.
func (s *NotificationService) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.items...)
}

// UnreadCount returns the active user's number of unread notifications.
func (s *NotificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// MarkAsRead flips the given notification of the active session user to
// read. Without an active user it is a no-op.
func (s *NotificationService) MarkAsRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == "" {
		return nil
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
		}
	}
	s.unread = countUnread(s.items)
	return s.repo.Save(ctx, s.email, s.items)
}

// MarkAllAsRead flips every notification of the active session user to read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == "" {
		return nil
	}

	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	return s.repo.Save(ctx, s.email, s.items)
}

// ClearAll removes every notification of the active session user.
func (s *NotificationService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == "" {
		return nil
	}

	s.items = nil
	s.unread = 0
	return s.repo.Save(ctx, s.email, nil)
}

func countUnread(list []models.Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
