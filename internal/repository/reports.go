package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/store"
	"go.uber.org/zap"
)

// RecordReportRepository persists reports in the record store. Every report
// lives in two places: the owner's per-user list and the global list. All
// mutations run inside one store transaction so the two views cannot
// diverge on a partial failure.
type RecordReportRepository struct {
	// Store is the record store handle.
	Store store.Store
	// Log reports recovered storage parse errors.
	Log *zap.Logger
}

// NewRecordReportRepository creates a RecordReportRepository over the given
// store.
func NewRecordReportRepository(s store.Store, log *zap.Logger) *RecordReportRepository {
	return &RecordReportRepository{Store: s, Log: log}
}

// UserReports returns the report list of the user with the given email.
// Absent or malformed records yield an empty list.
func (r *RecordReportRepository) UserReports(ctx context.Context, email string) ([]models.Report, error) {
	return r.load(ctx, r.Store, UserReportsKey(email))
}

// AllReports returns the global denormalized report list.
func (r *RecordReportRepository) AllReports(ctx context.Context) ([]models.Report, error) {
	return r.load(ctx, r.Store, keyAllReports)
}

// Append adds report to the owner's per-user list and to the global list in
// one transaction (the dual write of every new submission).
func (r *RecordReportRepository) Append(ctx context.Context, report models.Report) error {
	return r.Store.Update(ctx, func(tx store.Tx) error {
		userKey := UserReportsKey(report.UserEmail)

		mine, err := r.load(ctx, tx, userKey)
		if err != nil {
			return err
		}
		if err := r.save(ctx, tx, userKey, append(mine, report)); err != nil {
			return err
		}

		all, err := r.load(ctx, tx, keyAllReports)
		if err != nil {
			return err
		}
		return r.save(ctx, tx, keyAllReports, append(all, report))
	})
}

// UpdateEverywhere applies patch to the report with the given id in the
// global list and in every per-user list that holds it — the fan-out write.
// It returns the patched report as stored globally, or nil when no report
// with that id exists.
func (r *RecordReportRepository) UpdateEverywhere(ctx context.Context, id int64, patch func(*models.Report)) (*models.Report, error) {
	var patched *models.Report

	err := r.Store.Update(ctx, func(tx store.Tx) error {
		all, err := r.load(ctx, tx, keyAllReports)
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].ID == id {
				patch(&all[i])
				clone := all[i]
				patched = &clone
				break
			}
		}
		if patched == nil {
			return nil
		}
		if err := r.save(ctx, tx, keyAllReports, all); err != nil {
			return err
		}
		return r.fanOut(ctx, tx, id, func(rep *models.Report) { patch(rep) })
	})
	if err != nil {
		return nil, err
	}
	return patched, nil
}

// RemoveEverywhere deletes the report with the given id from the global
// list and from every per-user list. It returns false when the id was not
// present in the global list.
func (r *RecordReportRepository) RemoveEverywhere(ctx context.Context, id int64) (bool, error) {
	removed := false

	err := r.Store.Update(ctx, func(tx store.Tx) error {
		all, err := r.load(ctx, tx, keyAllReports)
		if err != nil {
			return err
		}
		kept := all[:0:0]
		for _, rep := range all {
			if rep.ID == id {
				removed = true
				continue
			}
			kept = append(kept, rep)
		}
		if !removed {
			return nil
		}
		if err := r.save(ctx, tx, keyAllReports, kept); err != nil {
			return err
		}

		userKeys, err := tx.Keys(ctx, UserReportsPrefix)
		if err != nil {
			return err
		}
		for _, key := range userKeys {
			mine, err := r.load(ctx, tx, key)
			if err != nil {
				return err
			}
			filtered := mine[:0:0]
			changed := false
			for _, rep := range mine {
				if rep.ID == id {
					changed = true
					continue
				}
				filtered = append(filtered, rep)
			}
			if !changed {
				continue
			}
			if err := r.save(ctx, tx, key, filtered); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// fanOut rescans every per-user report key and applies patch to the report
// with the given id wherever it appears.
func (r *RecordReportRepository) fanOut(ctx context.Context, tx store.Tx, id int64, patch func(*models.Report)) error {
	userKeys, err := tx.Keys(ctx, UserReportsPrefix)
	if err != nil {
		return err
	}
	for _, key := range userKeys {
		mine, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		changed := false
		for i := range mine {
			if mine[i].ID == id {
				patch(&mine[i])
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := r.save(ctx, tx, key, mine); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecordReportRepository) load(ctx context.Context, g store.Tx, key string) ([]models.Report, error) {
	raw, found, err := g.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	var reports []models.Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		r.Log.Warn("malformed report record, treating as empty",
			zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return reports, nil
}

func (r *RecordReportRepository) save(ctx context.Context, g store.Tx, key string, reports []models.Report) error {
	if reports == nil {
		reports = []models.Report{}
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := g.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}
