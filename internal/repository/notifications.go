package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/store"
	"go.uber.org/zap"
)

// RecordNotificationRepository persists per-user notification lists in the
// record store, newest first.
type RecordNotificationRepository struct {
	// Store is the record store handle.
	Store store.Store
	// Log reports recovered storage parse errors.
	Log *zap.Logger
}

// NewRecordNotificationRepository creates a RecordNotificationRepository
// over the given store.
func NewRecordNotificationRepository(s store.Store, log *zap.Logger) *RecordNotificationRepository {
	return &RecordNotificationRepository{Store: s, Log: log}
}

// ForUser returns the notification list of the user with the given email.
// Absent or malformed records yield an empty list.
func (r *RecordNotificationRepository) ForUser(ctx context.Context, email string) ([]models.Notification, error) {
	raw, found, err := r.Store.Get(ctx, NotificationsKey(email))
	if err != nil {
		return nil, fmt.Errorf("load notifications for %q: %w", email, err)
	}
	if !found {
		return nil, nil
	}
	var list []models.Notification
	if err := json.Unmarshal(raw, &list); err != nil {
		r.Log.Warn("malformed notification record, treating as empty",
			zap.String("email", email), zap.Error(err))
		return nil, nil
	}
	return list, nil
}

// Save replaces the notification list of the user with the given email.
func (r *RecordNotificationRepository) Save(ctx context.Context, email string, list []models.Notification) error {
	if list == nil {
		list = []models.Notification{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal notifications for %q: %w", email, err)
	}
	if err := r.Store.Put(ctx, NotificationsKey(email), raw); err != nil {
		return fmt.Errorf("save notifications for %q: %w", email, err)
	}
	return nil
}

// Prepend inserts n at the head of the user's list (newest first) in one
// read-modify-write transaction and returns the updated list.
func (r *RecordNotificationRepository) Prepend(ctx context.Context, email string, n models.Notification) ([]models.Notification, error) {
	var updated []models.Notification

	err := r.Store.Update(ctx, func(tx store.Tx) error {
		key := NotificationsKey(email)

		var existing []models.Notification
		raw, found, err := tx.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("load notifications for %q: %w", email, err)
		}
		if found {
			if err := json.Unmarshal(raw, &existing); err != nil {
				r.Log.Warn("malformed notification record, treating as empty",
					zap.String("email", email), zap.Error(err))
				existing = nil
			}
		}

		updated = append([]models.Notification{n}, existing...)
		out, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal notifications for %q: %w", email, err)
		}
		return tx.Put(ctx, key, out)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
