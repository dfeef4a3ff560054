package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/back2u/back2u/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReportBody = `{
	"itemName": "Black Wallet",
	"description": "Leather wallet with cards",
	"category": "Accessories",
	"dateTime": "2025-01-15T10:30",
	"status": "lost",
	"location": "Main Library",
	"contactInfo": "v@x.com"
}`

func TestCreateReport_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"itemName":`},
		{"empty payload", `{}`},
		{"unknown category", `{"itemName":"W","description":"d","category":"Vehicles","dateTime":"t","status":"lost","location":"l","contactInfo":"c"}`},
		{"unknown status", `{"itemName":"W","description":"d","category":"Other","dateTime":"t","status":"misplaced","location":"l","contactInfo":"c"}`},
		{"missing location", `{"itemName":"W","description":"d","category":"Other","dateTime":"t","status":"lost","contactInfo":"c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := newFakeReports()
			h := &ReportHandler{Reports: reports, Identity: &fakeIdentity{}}

			w := httptest.NewRecorder()
			h.Create(w, newRequest(t, http.MethodPost, "/api/reports", tt.body, "v@x.com", ""))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, reports.drafts)
		})
	}
}

func TestCreateReport_StampsOwnerFromSession(t *testing.T) {
	owner := models.User{ID: 7, Username: "vishu", Email: "v@x.com", Role: models.RoleUser}
	reports := newFakeReports()
	h := &ReportHandler{
		Reports:  reports,
		Identity: &fakeIdentity{users: []models.User{owner}},
	}

	w := httptest.NewRecorder()
	h.Create(w, newRequest(t, http.MethodPost, "/api/reports", validReportBody, "v@x.com", ""))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, reports.drafts, 1)
	assert.Equal(t, "Black Wallet", reports.drafts[0].ItemName)
	assert.Equal(t, models.CategoryAccessories, reports.drafts[0].Category)
	require.Len(t, reports.owners, 1)
	assert.Equal(t, owner, reports.owners[0])

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp["id"])
}

func TestListAll_EmptyIsArray(t *testing.T) {
	h := &ReportHandler{Reports: newFakeReports(), Identity: &fakeIdentity{}}

	w := httptest.NewRecorder()
	h.ListAll(w, newRequest(t, http.MethodGet, "/api/reports", "", "v@x.com", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListMine_UsesSessionEmail(t *testing.T) {
	reports := newFakeReports()
	reports.byUser["v@x.com"] = []models.Report{{ID: 1, ItemName: "Wallet", UserEmail: "v@x.com"}}
	reports.byUser["other@x.com"] = []models.Report{{ID: 2, ItemName: "Keys", UserEmail: "other@x.com"}}
	h := &ReportHandler{Reports: reports, Identity: &fakeIdentity{}}

	w := httptest.NewRecorder()
	h.ListMine(w, newRequest(t, http.MethodGet, "/api/reports/mine", "", "v@x.com", ""))

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestVerify(t *testing.T) {
	admin := models.User{ID: 1, Username: "admin", Email: "admin@back2u.com", Role: models.RoleAdmin}

	t.Run("records the admin as verifier", func(t *testing.T) {
		reports := newFakeReports()
		reports.known[5] = true
		h := &ReportHandler{Reports: reports, Identity: &fakeIdentity{users: []models.User{admin}}}

		w := httptest.NewRecorder()
		h.Verify(w, newRequest(t, http.MethodPost, "/api/reports/5/verify", "", "admin@back2u.com", "5"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "admin", reports.verified[5])
	})

	t.Run("unknown report", func(t *testing.T) {
		h := &ReportHandler{Reports: newFakeReports(), Identity: &fakeIdentity{users: []models.User{admin}}}

		w := httptest.NewRecorder()
		h.Verify(w, newRequest(t, http.MethodPost, "/api/reports/99/verify", "", "admin@back2u.com", "99"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h := &ReportHandler{Reports: newFakeReports(), Identity: &fakeIdentity{users: []models.User{admin}}}

		w := httptest.NewRecorder()
		h.Verify(w, newRequest(t, http.MethodPost, "/api/reports/x/verify", "", "admin@back2u.com", "x"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnverifyAndDelete(t *testing.T) {
	admin := models.User{ID: 1, Username: "admin", Email: "admin@back2u.com", Role: models.RoleAdmin}
	reports := newFakeReports()
	reports.known[5] = true
	reports.verified[5] = "admin"
	h := &ReportHandler{Reports: reports, Identity: &fakeIdentity{users: []models.User{admin}}}

	w := httptest.NewRecorder()
	h.Unverify(w, newRequest(t, http.MethodPost, "/api/reports/5/unverify", "", "admin@back2u.com", "5"))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, reports.verified, int64(5))

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(t, http.MethodDelete, "/api/reports/5", "", "admin@back2u.com", "5"))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{5}, reports.removed)

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(t, http.MethodDelete, "/api/reports/99", "", "admin@back2u.com", "99"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
