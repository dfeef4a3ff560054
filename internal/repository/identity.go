package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/store"
	"go.uber.org/zap"
)

// RecordIdentityRepository persists users, the session and the dark-mode
// preference in the record store.
type RecordIdentityRepository struct {
	// Store is the record store handle.
	Store store.Store
	// Log reports recovered storage parse errors.
	Log *zap.Logger
}

// NewRecordIdentityRepository creates a RecordIdentityRepository over the
// given store.
func NewRecordIdentityRepository(s store.Store, log *zap.Logger) *RecordIdentityRepository {
	return &RecordIdentityRepository{Store: s, Log: log}
}

// Users returns the stored user list. An absent or malformed allUsers key
// yields an empty list, never an error surfaced to callers.
func (r *RecordIdentityRepository) Users(ctx context.Context) ([]models.User, error) {
	raw, found, err := r.Store.Get(ctx, keyAllUsers)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !found {
		return nil, nil
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		r.Log.Warn("malformed allUsers record, treating as empty", zap.Error(err))
		return nil, nil
	}
	return users, nil
}

// SaveUsers replaces the stored user list.
func (r *RecordIdentityRepository) SaveUsers(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := r.Store.Put(ctx, keyAllUsers, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// HasUsers reports whether the allUsers key exists at all, regardless of
// content. Seeding runs only when it does not.
func (r *RecordIdentityRepository) HasUsers(ctx context.Context) (bool, error) {
	_, found, err := r.Store.Get(ctx, keyAllUsers)
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	return found, nil
}

// Session returns the persisted session. The session counts as logged in
// only when both the currentUser record and the isLoggedIn marker are
// present and well formed.
func (r *RecordIdentityRepository) Session(ctx context.Context) (models.Session, error) {
	var session models.Session

	marker, found, err := r.Store.Get(ctx, keyIsLoggedIn)
	if err != nil {
		return session, fmt.Errorf("load session marker: %w", err)
	}
	if !found || string(marker) != string(loggedInValue) {
		return session, nil
	}

	raw, found, err := r.Store.Get(ctx, keyCurrentUser)
	if err != nil {
		return session, fmt.Errorf("load current user: %w", err)
	}
	if !found {
		return session, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		r.Log.Warn("malformed currentUser record, treating as logged out", zap.Error(err))
		return session, nil
	}

	session.IsLoggedIn = true
	session.CurrentUser = &user
	return session, nil
}

// SaveSession persists user as the active session, writing the currentUser
// record and the isLoggedIn marker together.
func (r *RecordIdentityRepository) SaveSession(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	return r.Store.Update(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, keyCurrentUser, raw); err != nil {
			return err
		}
		return tx.Put(ctx, keyIsLoggedIn, loggedInValue)
	})
}

// ClearSession removes the persisted session records.
func (r *RecordIdentityRepository) ClearSession(ctx context.Context) error {
	return r.Store.Update(ctx, func(tx store.Tx) error {
		if err := tx.Delete(ctx, keyCurrentUser); err != nil {
			return err
		}
		return tx.Delete(ctx, keyIsLoggedIn)
	})
}

// DarkMode returns the stored dark-mode preference. The second return value
// is false when the preference has never been written.
func (r *RecordIdentityRepository) DarkMode(ctx context.Context) (bool, bool, error) {
	raw, found, err := r.Store.Get(ctx, keyDarkMode)
	if err != nil {
		return false, false, fmt.Errorf("load dark mode: %w", err)
	}
	if !found {
		return false, false, nil
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		r.Log.Warn("malformed darkMode record, treating as unset", zap.Error(err))
		return false, false, nil
	}
	return enabled, true, nil
}

// SaveDarkMode persists the dark-mode preference.
func (r *RecordIdentityRepository) SaveDarkMode(ctx context.Context, enabled bool) error {
	raw, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("marshal dark mode: %w", err)
	}
	if err := r.Store.Put(ctx, keyDarkMode, raw); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// DeleteUserCascade replaces the user list and removes the deleted user's
// report and notification records in one transaction, so a cascade cannot
// partially apply.
func (r *RecordIdentityRepository) DeleteUserCascade(ctx context.Context, users []models.User, email string) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	return r.Store.Update(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, keyAllUsers, raw); err != nil {
			return err
		}
		if err := tx.Delete(ctx, UserReportsKey(email)); err != nil {
			return err
		}
		return tx.Delete(ctx, NotificationsKey(email))
	})
}
