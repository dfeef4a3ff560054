package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/back2u/back2u/internal/models"
	"go.uber.org/zap"
)

// ErrCannotDeleteSelf signals an admin attempting to delete the account of
// the current session. The operation is a no-op.
var ErrCannotDeleteSelf = errors.New("cannot delete currently logged in user")

// IdentityRepository defines the persistence operations required by the
// identity service.
type IdentityRepository interface {
	// Users returns the stored user list.
	Users(ctx context.Context) ([]models.User, error)
	// SaveUsers replaces the stored user list.
	SaveUsers(ctx context.Context, users []models.User) error
	// HasUsers reports whether a user list has ever been stored.
	HasUsers(ctx context.Context) (bool, error)
	// Session returns the persisted session.
	Session(ctx context.Context) (models.Session, error)
	// SaveSession persists user as the active session.
	SaveSession(ctx context.Context, user models.User) error
	// ClearSession removes the persisted session.
	ClearSession(ctx context.Context) error
	// DarkMode returns the stored preference and whether it was ever set.
	DarkMode(ctx context.Context) (bool, bool, error)
	// SaveDarkMode persists the dark-mode preference.
	SaveDarkMode(ctx context.Context, enabled bool) error
	// DeleteUserCascade replaces the user list and removes the deleted
	// user's report and notification records in one transaction.
	DeleteUserCascade(ctx context.Context, users []models.User, email string) error
}

// SessionNotifier is the slice of the notification service the identity
// service drives on login and logout.
type SessionNotifier interface {
	// LoadForUser loads the user's notifications and makes them active.
	LoadForUser(ctx context.Context, email string) ([]models.Notification, error)
	// Reset clears the in-memory notification state.
	Reset()
}

// seedUser describes one of the two accounts created on first run.
type seedUser struct {
	id       int64
	username string
	email    string
	password string
	role     models.Role
}

// Fixed first-run accounts: one admin, one regular user.
var seedUsers = []seedUser{
	{id: 1, username: "admin", email: "admin@back2u.com", password: "admin123", role: models.RoleAdmin},
	{id: 2, username: "demo", email: "demo@back2u.com", password: "demo1234", role: models.RoleUser},
}

// IdentityService owns the user list, the active session and the dark-mode
// preference.
type IdentityService struct {
	repo          IdentityRepository
	creds         CredentialVerifier
	notifications SessionNotifier
	log           *zap.Logger

	now func() time.Time

	mu          sync.Mutex
	session     models.Session
	darkMode    bool
	authChecked bool
}

// NewIdentityService constructs an IdentityService using the provided
// repository, credential verifier and notification hookup.
func NewIdentityService(repo IdentityRepository, creds CredentialVerifier, notifications SessionNotifier, log *zap.Logger) *IdentityService {
	return &IdentityService{
		repo:          repo,
		creds:         creds,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

// Initialize seeds the two fixed accounts on first run, loads the persisted
// session and preference state and sets the auth-checked flag. It runs
// exactly once per process start; later calls return immediately. No
// session state should be trusted before Initialize has run.
func (s *IdentityService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.authChecked {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	// Whatever happens below, auth has been checked once.
	defer func() {
		s.mu.Lock()
		s.authChecked = true
		s.mu.Unlock()
	}()

	seeded, err := s.repo.HasUsers(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if !seeded {
		users := make([]models.User, 0, len(seedUsers))
		for _, seed := range seedUsers {
			hash, err := s.creds.Hash(seed.password)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			users = append(users, models.User{
				ID:       seed.id,
				Username: seed.username,
				Email:    seed.email,
				Password: hash,
				Role:     seed.role,
			})
		}
		if err := s.repo.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		s.log.Info("seeded first-run accounts", zap.Int("count", len(users)))
	}

	session, err := s.repo.Session(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session.IsLoggedIn && session.CurrentUser != nil {
		if _, err := s.notifications.LoadForUser(ctx, session.CurrentUser.Email); err != nil {
			return fmt.Errorf("load notifications: %w", err)
		}
	}

	darkMode, set, err := s.repo.DarkMode(ctx)
	if err != nil {
		return fmt.Errorf("load dark mode: %w", err)
	}
	if !set {
		// Default to light mode and persist the default.
		if err := s.repo.SaveDarkMode(ctx, false); err != nil {
			return fmt.Errorf("save dark mode default: %w", err)
		}
	}

	s.mu.Lock()
	s.session = session
	s.darkMode = darkMode
	s.mu.Unlock()
	return nil
}

// Register creates a new account with role "user" and a fresh id and
// appends it to the user list. Email uniqueness is deliberately NOT checked
// here; callers check before registering (see the signup handler).
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	hash, err := s.creds.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:       s.now().UnixMilli(),
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}

	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	if err := s.repo.SaveUsers(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the credentials against the stored user list. On success
// it persists the session, loads the user's notifications and returns true.
// On failure it returns false and leaves the session untouched.
func (s *IdentityService) Login(ctx context.Context, email, password string) (bool, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return false, err
	}

	for _, user := range users {
		if user.Email != email || !s.creds.Verify(user.Password, password) {
			continue
		}
		if err := s.repo.SaveSession(ctx, user); err != nil {
			return false, err
		}
		if _, err := s.notifications.LoadForUser(ctx, user.Email); err != nil {
			return false, err
		}

		s.mu.Lock()
		u := user
		s.session = models.Session{IsLoggedIn: true, CurrentUser: &u}
		s.mu.Unlock()
		return true, nil
	}
	return false, nil
}

// Logout clears the persisted session and the in-memory notification state.
func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.repo.ClearSession(ctx); err != nil {
		return err
	}
	s.notifications.Reset()

	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()
	return nil
}

// Users returns the stored user list.
func (s *IdentityService) Users(ctx context.Context) ([]models.User, error) {
	return s.repo.Users(ctx)
}

// UserByEmail returns the stored user with the given email, comparing
// exactly as stored.
func (s *IdentityService) UserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

// DeleteUser removes the user with the given id and cascades the deletion
// to that user's report and notification records. Deleting the current
// session user is refused with ErrCannotDeleteSelf. Returns false when
// nothing was deleted.
func (s *IdentityService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	current := s.session.CurrentUser
	s.mu.Unlock()
	if current != nil && current.ID == id {
		return false, ErrCannotDeleteSelf
	}

	users, err := s.repo.Users(ctx)
	if err != nil {
		return false, err
	}

	var doomed *models.User
	kept := users[:0:0]
	for _, user := range users {
		if user.ID == id {
			u := user
			doomed = &u
			continue
		}
		kept = append(kept, user)
	}
	if doomed == nil {
		return false, nil
	}

	if err := s.repo.DeleteUserCascade(ctx, kept, doomed.Email); err != nil {
		return false, err
	}
	s.log.Info("deleted user",
		zap.Int64("id", doomed.ID), zap.String("email", doomed.Email))
	return true, nil
}

// UpdateUserRole changes the role of the user with the given id. When the
// target is the current session user the live session copy is updated and
// re-persisted as well.
func (s *IdentityService) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range users {
		if users[i].ID == id {
			users[i].Role = role
			found = true
		}
	}
	if !found {
		return nil
	}
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return err
	}

	s.mu.Lock()
	current := s.session.CurrentUser
	var refreshed *models.User
	if current != nil && current.ID == id {
		u := *current
		u.Role = role
		s.session.CurrentUser = &u
		refreshed = &u
	}
	s.mu.Unlock()

	if refreshed != nil {
		return s.repo.SaveSession(ctx, *refreshed)
	}
	return nil
}

// ToggleDarkMode flips the global dark-mode preference, persists it and
// returns the new value.
func (s *IdentityService) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	next := !s.darkMode
	s.mu.Unlock()

	if err := s.repo.SaveDarkMode(ctx, next); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.darkMode = next
	s.mu.Unlock()
	return next, nil
}

// Session returns a snapshot of the active session.
func (s *IdentityService) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session
	if session.CurrentUser != nil {
		u := *session.CurrentUser
		session.CurrentUser = &u
	}
	return session
}

// AuthChecked reports whether Initialize has completed.
func (s *IdentityService) AuthChecked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authChecked
}

// DarkMode returns the current dark-mode preference.
func (s *IdentityService) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}
