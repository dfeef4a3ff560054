package service

import (
	"context"
	"fmt"
	"time"

	"github.com/back2u/back2u/internal/models"
	"go.uber.org/zap"
)

// ReportRepository defines the persistence operations required by the
// report service.
type ReportRepository interface {
	// UserReports retrieves the report list of the given user.
	UserReports(ctx context.Context, email string) ([]models.Report, error)
	// AllReports retrieves the global denormalized report list.
	AllReports(ctx context.Context) ([]models.Report, error)
	// Append adds a report to the owner's list and the global list.
	Append(ctx context.Context, report models.Report) error
	// UpdateEverywhere applies patch to the report in both views and
	// returns the patched report, or nil when the id is unknown.
	UpdateEverywhere(ctx context.Context, id int64, patch func(*models.Report)) (*models.Report, error)
	// RemoveEverywhere deletes the report from both views.
	RemoveEverywhere(ctx context.Context, id int64) (bool, error)
}

// ReportNotifier is the slice of the notification service the report
// service uses to tell an owner their report was verified.
type ReportNotifier interface {
	Add(ctx context.Context, email string, draft NotificationDraft) (models.Notification, error)
}

// ReportDraft carries the user-entered fields of a new report; ownership,
// id, timestamp and verification state are stamped by the service.
type ReportDraft struct {
	ItemName    string
	Description string
	Category    models.Category
	DateTime    string
	Status      models.ReportStatus
	Location    string
	ContactInfo string
	Image       *string
}

// ReportService owns report records: submission, admin verification with
// owner notification, and the global and per-user read views.
type ReportService struct {
	repo     ReportRepository
	notifier ReportNotifier
	log      *zap.Logger

	now func() time.Time
}

// NewReportService constructs a ReportService using the provided repository
// and notifier.
func NewReportService(repo ReportRepository, notifier ReportNotifier, log *zap.Logger) *ReportService {
	return &ReportService{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// AddReport stamps the draft with id, ownership and creation time and
// stores it in both the owner's list and the global list. Returns the new
// report id.
func (s *ReportService) AddReport(ctx context.Context, owner models.User, draft ReportDraft) (int64, error) {
	now := s.now()
	report := models.Report{
		ID:          now.UnixMilli(),
		ItemName:    draft.ItemName,
		Description: draft.Description,
		Category:    draft.Category,
		DateTime:    draft.DateTime,
		Status:      draft.Status,
		Location:    draft.Location,
		ContactInfo: draft.ContactInfo,
		Image:       draft.Image,
		UserEmail:   owner.Email,
		Username:    owner.Username,
		UserID:      owner.ID,
		Timestamp:   now.UTC().Format(isoTimestampLayout),
		Verified:    false,
	}

	if err := s.repo.Append(ctx, report); err != nil {
		return 0, fmt.Errorf("add report: %w", err)
	}
	s.log.Info("report submitted",
		zap.Int64("id", report.ID),
		zap.String("owner", report.UserEmail),
		zap.String("status", string(report.Status)))
	return report.ID, nil
}

// VerifyReport marks the report as verified in both views and sends one
// verification notification to the owner. Re-verifying a verified report
// rewrites the same fields. Returns false when the id is unknown.
func (s *ReportService) VerifyReport(ctx context.Context, id int64, verifiedBy string) (bool, error) {
	when := s.now().UTC().Format(isoTimestampLayout)
	patched, err := s.repo.UpdateEverywhere(ctx, id, func(rep *models.Report) {
		rep.Verified = true
		rep.VerificationDate = &when
		rep.VerifiedBy = &verifiedBy
	})
	if err != nil {
		return false, fmt.Errorf("verify report: %w", err)
	}
	if patched == nil {
		return false, nil
	}

	_, err = s.notifier.Add(ctx, patched.UserEmail, NotificationDraft{
		Type:     models.NotificationVerification,
		Title:    "Item Verified!",
		Message:  fmt.Sprintf("Your item %q has been verified by %s.", patched.ItemName, verifiedBy),
		ItemName: patched.ItemName,
		ReportID: patched.ID,
		Status:   patched.Status,
	})
	if err != nil {
		// The verification itself is already persisted.
		return true, fmt.Errorf("notify owner: %w", err)
	}
	return true, nil
}

// UnverifyReport clears the verification fields in both views. Returns
// false when the id is unknown.
func (s *ReportService) UnverifyReport(ctx context.Context, id int64) (bool, error) {
	patched, err := s.repo.UpdateEverywhere(ctx, id, func(rep *models.Report) {
		rep.Verified = false
		rep.VerificationDate = nil
		rep.VerifiedBy = nil
	})
	if err != nil {
		return false, fmt.Errorf("unverify report: %w", err)
	}
	return patched != nil, nil
}

// DeleteReport removes the report from both views. Returns false when the
// id is unknown.
func (s *ReportService) DeleteReport(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.RemoveEverywhere(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete report: %w", err)
	}
	if removed {
		s.log.Info("report deleted", zap.Int64("id", id))
	}
	return removed, nil
}

// AllReports returns the global report list.
func (s *ReportService) AllReports(ctx context.Context) ([]models.Report, error) {
	return s.repo.AllReports(ctx)
}

// UserReports returns the report list of the user with the given email.
func (s *ReportService) UserReports(ctx context.Context, email string) ([]models.Report, error) {
	return s.repo.UserReports(ctx, email)
}
