package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/back2u/back2u/internal/middleware"
	"github.com/back2u/back2u/internal/models"
	"github.com/back2u/back2u/internal/service"
	"github.com/go-chi/chi/v5"
)

// ReportService defines the report operations required by the HTTP handlers.
type ReportService interface {
	AddReport(ctx context.Context, owner models.User, draft service.ReportDraft) (int64, error)
	VerifyReport(ctx context.Context, id int64, verifiedBy string) (bool, error)
	UnverifyReport(ctx context.Context, id int64) (bool, error)
	DeleteReport(ctx context.Context, id int64) (bool, error)
	AllReports(ctx context.Context) ([]models.Report, error)
	UserReports(ctx context.Context, email string) ([]models.Report, error)
}

// ReportHandler handles report submission, listing and admin moderation.
type ReportHandler struct {
	Reports ReportService
	// Identity resolves the authenticated user for ownership stamping and
	// for the verifier's display name.
	Identity IdentityService
}

// CreateReportRequest represents the JSON payload for a new report.
type CreateReportRequest struct {
	ItemName    string  `json:"itemName"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	DateTime    string  `json:"dateTime"`
	Status      string  `json:"status"`
	Location    string  `json:"location"`
	ContactInfo string  `json:"contactInfo"`
	Image       *string `json:"image"`
}

// validate returns the names of the required fields that are missing or
// invalid, in form order.
func (req *CreateReportRequest) validate() []string {
	var missing []string
	if req.ItemName == "" {
		missing = append(missing, "itemName")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if !models.ValidCategory(models.Category(req.Category)) {
		missing = append(missing, "category")
	}
	if req.DateTime == "" {
		missing = append(missing, "dateTime")
	}
	if req.Status != string(models.StatusLost) && req.Status != string(models.StatusFound) {
		missing = append(missing, "status")
	}
	if req.Location == "" {
		missing = append(missing, "location")
	}
	if req.ContactInfo == "" {
		missing = append(missing, "contactInfo")
	}
	return missing
}

// Create handles report submissions. The owner is taken from the session,
// never from the payload.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if missing := req.validate(); len(missing) > 0 {
		http.Error(w, "missing or invalid fields: "+strings.Join(missing, ", "), http.StatusBadRequest)
		return
	}

	owner, found, err := currentUser(r, h.Identity)
	if err != nil || !found {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	id, err := h.Reports.AddReport(r.Context(), owner, service.ReportDraft{
		ItemName:    req.ItemName,
		Description: req.Description,
		Category:    models.Category(req.Category),
		DateTime:    req.DateTime,
		Status:      models.ReportStatus(req.Status),
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		Image:       req.Image,
	})
	if err != nil {
		http.Error(w, "failed to save report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": id})
}

// ListAll responds with the global report list.
func (h *ReportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Reports.AllReports(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeReports(w, reports)
}

// ListMine responds with the authenticated user's own reports.
func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	reports, err := h.Reports.UserReports(r.Context(), email)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeReports(w, reports)
}

// Verify marks a report verified and records the acting admin's username as
// the verifier.
func (h *ReportHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	admin, found, err := currentUser(r, h.Identity)
	if err != nil || !found {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	verified, err := h.Reports.VerifyReport(r.Context(), id, admin.Username)
	if !verified && err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !verified {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	// A failed owner notification does not undo the verification.
	w.WriteHeader(http.StatusNoContent)
}

// Unverify clears a report's verification state.
func (h *ReportHandler) Unverify(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	done, err := h.Reports.UnverifyReport(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !done {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a report from the global list and its owner's list.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	done, err := h.Reports.DeleteReport(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !done {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeReports(w http.ResponseWriter, reports []models.Report) {
	if reports == nil {
		reports = []models.Report{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reports)
}
