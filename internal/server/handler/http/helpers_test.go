package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/back2u/back2u/internal/middleware"
	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/service"
	"github.com/go-chi/chi/v5"
)

type fakeIdentity struct {
	users      []models.User
	loginOK    bool
	loginErr   error
	loggedOut  bool
	darkMode   bool
	registered []models.User
}

func (f *fakeIdentity) Register(_ context.Context, username, email, password string) (models.User, error) {
	user := models.User{ID: 100, Username: username, Email: email, Password: "hashed:" + password, Role: models.RoleUser}
	f.registered = append(f.registered, user)
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeIdentity) Login(context.Context, string, string) (bool, error) {
	return f.loginOK, f.loginErr
}

func (f *fakeIdentity) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeIdentity) UserByEmail(_ context.Context, email string) (models.User, bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (f *fakeIdentity) ToggleDarkMode(context.Context) (bool, error) {
	f.darkMode = !f.darkMode
	return f.darkMode, nil
}

type fakeSessions struct {
	tokens        map[string]string
	revoked       []string
	revokedEmails []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Issue(email string) string {
	token := "tok-" + email
	f.tokens[token] = email
	return token
}

func (f *fakeSessions) Resolve(token string) (string, bool) {
	email, ok := f.tokens[token]
	return email, ok
}

func (f *fakeSessions) Revoke(token string) {
	f.revoked = append(f.revoked, token)
	delete(f.tokens, token)
}

func (f *fakeSessions) RevokeEmail(email string) {
	f.revokedEmails = append(f.revokedEmails, email)
	for token, owner := range f.tokens {
		if owner == email {
			delete(f.tokens, token)
		}
	}
}

type fakeReports struct {
	all      []models.Report
	byUser   map[string][]models.Report
	drafts   []service.ReportDraft
	owners   []models.User
	known    map[int64]bool
	verified map[int64]string
	removed  []int64
}

func newFakeReports() *fakeReports {
	return &fakeReports{
		byUser:   map[string][]models.Report{},
		known:    map[int64]bool{},
		verified: map[int64]string{},
	}
}

func (f *fakeReports) AddReport(_ context.Context, owner models.User, draft service.ReportDraft) (int64, error) {
	f.drafts = append(f.drafts, draft)
	f.owners = append(f.owners, owner)
	return 42, nil
}

func (f *fakeReports) VerifyReport(_ context.Context, id int64, verifiedBy string) (bool, error) {
	if !f.known[id] {
		return false, nil
	}
	f.verified[id] = verifiedBy
	return true, nil
}

func (f *fakeReports) UnverifyReport(_ context.Context, id int64) (bool, error) {
	if !f.known[id] {
		return false, nil
	}
	delete(f.verified, id)
	return true, nil
}

func (f *fakeReports) DeleteReport(_ context.Context, id int64) (bool, error) {
	if !f.known[id] {
		return false, nil
	}
	f.removed = append(f.removed, id)
	return true, nil
}

func (f *fakeReports) AllReports(context.Context) ([]models.Report, error) {
	return f.all, nil
}

func (f *fakeReports) UserReports(_ context.Context, email string) ([]models.Report, error) {
	return f.byUser[email], nil
}

type fakeNotifications struct {
	byUser  map[string][]models.Notification
	active  string
	unread  int
	read    []int64
	readAll bool
	cleared bool
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{byUser: map[string][]models.Notification{}}
}

func (f *fakeNotifications) LoadForUser(_ context.Context, email string) ([]models.Notification, error) {
	f.active = email
	return f.byUser[email], nil
}

func (f *fakeNotifications) UnreadCount() int { return f.unread }

func (f *fakeNotifications) MarkAsRead(_ context.Context, id int64) error {
	f.read = append(f.read, id)
	return nil
}

func (f *fakeNotifications) MarkAllAsRead(context.Context) error {
	f.readAll = true
	return nil
}

func (f *fakeNotifications) ClearAll(context.Context) error {
	f.cleared = true
	return nil
}

type fakeAdminIdentity struct {
	users     []models.User
	deleteErr error
	deleted   []int64
	roles     map[int64]models.Role
}

func (f *fakeAdminIdentity) Users(context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeAdminIdentity) DeleteUser(_ context.Context, id int64) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	for _, u := range f.users {
		if u.ID == id {
			f.deleted = append(f.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAdminIdentity) UpdateUserRole(_ context.Context, id int64, role models.Role) error {
	if f.roles == nil {
		f.roles = map[int64]models.Role{}
	}
	f.roles[id] = role
	return nil
}

// newRequest builds a JSON request authenticated as email (empty for
// anonymous), with an optional chi {id} URL parameter.
func newRequest(t *testing.T, method, target, body, email, id string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if email != "" {
		ctx = middleware.WithEmail(ctx, email)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
