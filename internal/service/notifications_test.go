package service

import (
	"context"
	"testing"
	"time"

	"github.com/back2u/back2u/internal/models"
	"go.uber.org/zap"
)

// mockNotificationRepo is an in-memory NotificationRepository.
type mockNotificationRepo struct {
	lists   map[string][]models.Notification
	saveErr error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{lists: make(map[string][]models.Notification)}
}

func (m *mockNotificationRepo) ForUser(ctx context.Context, email string) ([]models.Notification, error) {
	return m.lists[email], nil
}

func (m *mockNotificationRepo) Save(ctx context.Context, email string, list []models.Notification) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lists[email] = append([]models.Notification(nil), list...)
	return nil
}

func (m *mockNotificationRepo) Prepend(ctx context.Context, email string, n models.Notification) ([]models.Notification, error) {
	updated := append([]models.Notification{n}, m.lists[email]...)
	m.lists[email] = updated
	return updated, nil
}

func setupNotificationService() (*NotificationService, *mockNotificationRepo) {
	repo := newMockNotificationRepo()
	svc := NewNotificationService(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestAdd_StampsFields(t *testing.T) {
	svc, repo := setupNotificationService()

	n, err := svc.Add(context.Background(), "a@x.com", NotificationDraft{
		Type:     models.NotificationVerification,
		Title:    "Item Verified!",
		Message:  `Your item "Wallet" has been verified by admin.`,
		ItemName: "Wallet",
		ReportID: 42,
		Status:   models.StatusLost,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if n.ID == 0 || n.Read {
		t.Errorf("expected stamped unread notification, got %+v", n)
	}
	if n.Timestamp != "2026-09-01T10:00:00.000Z" {
		t.Errorf("unexpected timestamp: %q", n.Timestamp)
	}
	if len(repo.lists["a@x.com"]) != 1 {
		t.Errorf("expected one stored notification, got %d", len(repo.lists["a@x.com"]))
	}
}

func TestAdd_BumpsUnreadOnlyForActiveUser(t *testing.T) {
	svc, _ := setupNotificationService()
	ctx := context.Background()

	if _, err := svc.LoadForUser(ctx, "active@x.com"); err != nil {
		t.Fatalf("LoadForUser failed: %v", err)
	}

	if _, err := svc.Add(ctx, "other@x.com", NotificationDraft{Type: models.NotificationSystem, Title: "hi"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 0 {
		t.Errorf("other user's notification bumped the counter: %d", got)
	}

	if _, err := svc.Add(ctx, "active@x.com", NotificationDraft{Type: models.NotificationSystem, Title: "hi"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 1 {
		t.Errorf("expected unread count 1, got %d", got)
	}
	if got := len(svc.Notifications()); got != 1 {
		t.Errorf("expected one in-memory notification, got %d", got)
	}
}

func TestMarkAsRead_RecomputesUnread(t *testing.T) {
	svc, repo := setupNotificationService()
	ctx := context.Background()

	repo.lists["a@x.com"] = []models.Notification{
		{ID: 1, Read: false},
		{ID: 2, Read: false},
		{ID: 3, Read: true},
	}
	if _, err := svc.LoadForUser(ctx, "a@x.com"); err != nil {
		t.Fatalf("LoadForUser failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 2 {
		t.Fatalf("expected unread count 2 after load, got %d", got)
	}

	if err := svc.MarkAsRead(ctx, 1); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 1 {
		t.Errorf("expected unread count 1, got %d", got)
	}
	if !repo.lists["a@x.com"][0].Read {
		t.Error("expected change to be persisted")
	}
}

func TestMarkAllAsRead(t *testing.T) {
	svc, repo := setupNotificationService()
	ctx := context.Background()

	repo.lists["a@x.com"] = []models.Notification{{ID: 1}, {ID: 2}}
	if _, err := svc.LoadForUser(ctx, "a@x.com"); err != nil {
		t.Fatalf("LoadForUser failed: %v", err)
	}

	if err := svc.MarkAllAsRead(ctx); err != nil {
		t.Fatalf("MarkAllAsRead failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 0 {
		t.Errorf("expected unread count 0, got %d", got)
	}
	for _, n := range repo.lists["a@x.com"] {
		if !n.Read {
			t.Errorf("notification %d not persisted as read", n.ID)
		}
	}
}

func TestClearAll(t *testing.T) {
	svc, repo := setupNotificationService()
	ctx := context.Background()

	repo.lists["a@x.com"] = []models.Notification{{ID: 1}, {ID: 2}}
	if _, err := svc.LoadForUser(ctx, "a@x.com"); err != nil {
		t.Fatalf("LoadForUser failed: %v", err)
	}

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if got := svc.UnreadCount(); got != 0 {
		t.Errorf("expected unread count 0, got %d", got)
	}
	if len(repo.lists["a@x.com"]) != 0 {
		t.Errorf("expected persisted list to be empty, got %v", repo.lists["a@x.com"])
	}
	if len(svc.Notifications()) != 0 {
		t.Error("expected in-memory list to be empty")
	}
}

func TestReadOps_NoopWithoutActiveUser(t *testing.T) {
	svc, repo := setupNotificationService()
	ctx := context.Background()

	repo.lists["a@x.com"] = []models.Notification{{ID: 1}}

	if err := svc.MarkAsRead(ctx, 1); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if err := svc.MarkAllAsRead(ctx); err != nil {
		t.Fatalf("MarkAllAsRead failed: %v", err)
	}
	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if repo.lists["a@x.com"][0].Read || len(repo.lists["a@x.com"]) != 1 {
		t.Errorf("stored list was touched without an active user: %v", repo.lists["a@x.com"])
	}
}
