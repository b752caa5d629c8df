package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jobtrack/internal/database"
	"go-jobtrack/internal/models"
	"go-jobtrack/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(tracker.New(database.NewMemoryStore(), "user-1"))
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createApp(t *testing.T, s *Server, company, position, status string) models.JobApplication {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/applications", gin.H{
		"company_name":   company,
		"position_title": position,
		"status":         status,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var app models.JobApplication
	decode(t, w, &app)
	return app
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndListApplications(t *testing.T) {
	s := newTestServer(t)

	app := createApp(t, s, "Acme", "Engineer", "applied")
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, models.PriorityMedium, app.Priority, "priority must default")

	w := do(t, s, http.MethodGet, "/api/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Applications []models.JobApplication `json:"applications"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, app.ID, resp.Applications[0].ID)
}

func TestListApplicationsFiltering(t *testing.T) {
	s := newTestServer(t)
	createApp(t, s, "Acme", "Backend Engineer", "applied")
	createApp(t, s, "Globex", "Frontend Developer", "interview")

	var resp struct {
		Applications []models.JobApplication `json:"applications"`
	}

	w := do(t, s, http.MethodGet, "/api/applications?status=interview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, "Globex", resp.Applications[0].CompanyName)

	w = do(t, s, http.MethodGet, "/api/applications?search=backend", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, "Acme", resp.Applications[0].CompanyName)

	// filters are per-request, a bare list sees everything again
	w = do(t, s, http.MethodGet, "/api/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Len(t, resp.Applications, 2)
}

func TestListFiltersAreRequestScoped(t *testing.T) {
	tr := tracker.New(database.NewMemoryStore(), "user-1")
	s := New(tr)
	createApp(t, s, "Acme", "Engineer", "applied")
	createApp(t, s, "Globex", "Developer", "interview")

	// filter state set on the shared controller must not shape a request's
	// view, and a request must not rewrite it
	tr.Applications.SetStatusFilter("offer")

	w := do(t, s, http.MethodGet, "/api/applications?status=interview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Applications []models.JobApplication `json:"applications"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, "Globex", resp.Applications[0].CompanyName)

	assert.Empty(t, tr.Applications.Filtered(), "request leaked into shared filter state")
}

func TestCreateApplicationValidation(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/applications", gin.H{"position_title": "Engineer"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing company")

	w = do(t, s, http.MethodPost, "/api/applications", gin.H{
		"company_name":     "Acme",
		"position_title":   "Engineer",
		"application_date": "28-08-2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "malformed date")
}

func TestUpdateAndDeleteApplication(t *testing.T) {
	s := newTestServer(t)
	app := createApp(t, s, "Acme", "Engineer", "applied")

	w := do(t, s, http.MethodPut, "/api/applications/"+app.ID, gin.H{
		"company_name":   "Acme",
		"position_title": "Engineer",
		"status":         "offer",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.JobApplication
	decode(t, w, &updated)
	assert.Equal(t, models.StatusOffer, updated.Status)

	w = do(t, s, http.MethodDelete, "/api/applications/"+app.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodDelete, "/api/applications/"+app.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	createApp(t, s, "Acme", "Engineer", "applied")
	createApp(t, s, "Globex", "Developer", "applied")
	createApp(t, s, "Initech", "SRE", "offer")

	w := do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.ByStatus["applied"])
	assert.Equal(t, 1, resp.ByStatus["offer"])
}

func TestContactLifecycle(t *testing.T) {
	s := newTestServer(t)
	app := createApp(t, s, "Acme", "Engineer", "applied")
	base := fmt.Sprintf("/api/applications/%s/contacts", app.ID)

	w := do(t, s, http.MethodPost, base, gin.H{"name": "Jane Recruiter", "email": "jane@acme.dev"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var contact models.Contact
	decode(t, w, &contact)
	require.NotNil(t, contact.ApplicationID)
	assert.Equal(t, app.ID, *contact.ApplicationID)

	w = do(t, s, http.MethodPost, base, gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code, "blank name")

	w = do(t, s, http.MethodPut, base+"/"+contact.ID, gin.H{"name": "Jane Doe"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodDelete, base+"/"+contact.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Contacts []models.Contact `json:"contacts"`
	}
	decode(t, w, &resp)
	assert.Empty(t, resp.Contacts)
}

func TestReminderToggleAndOverdueFlag(t *testing.T) {
	s := newTestServer(t)
	app := createApp(t, s, "Acme", "Engineer", "applied")
	base := fmt.Sprintf("/api/applications/%s/reminders", app.ID)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	w := do(t, s, http.MethodPost, base, gin.H{"title": "Call recruiter", "reminder_date": yesterday})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rem models.Reminder
	decode(t, w, &rem)

	var resp struct {
		Reminders []struct {
			models.Reminder
			Overdue bool `json:"overdue"`
		} `json:"reminders"`
	}

	w = do(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Reminders, 1)
	assert.True(t, resp.Reminders[0].Overdue, "past incomplete reminder must be flagged")

	w = do(t, s, http.MethodPost, base+"/"+rem.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &resp)
	require.Len(t, resp.Reminders, 1)
	assert.True(t, resp.Reminders[0].IsCompleted)
	assert.False(t, resp.Reminders[0].Overdue, "completed reminder is never overdue")

	w = do(t, s, http.MethodPost, base+"/unknown/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReminderEditKeepsCompletion(t *testing.T) {
	s := newTestServer(t)
	app := createApp(t, s, "Acme", "Engineer", "applied")
	base := fmt.Sprintf("/api/applications/%s/reminders", app.ID)

	date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	w := do(t, s, http.MethodPost, base, gin.H{"title": "Call recruiter", "reminder_date": date})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rem models.Reminder
	decode(t, w, &rem)

	w = do(t, s, http.MethodPost, base+"/"+rem.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a title-only edit: the completion flag is not part of the form
	w = do(t, s, http.MethodPut, base+"/"+rem.ID, gin.H{"title": "Call recruiter back", "reminder_date": date})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reminders []struct {
			models.Reminder
			Overdue bool `json:"overdue"`
		} `json:"reminders"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Reminders, 1)
	assert.Equal(t, "Call recruiter back", resp.Reminders[0].Title)
	assert.True(t, resp.Reminders[0].IsCompleted, "edit must not reset completion")
	assert.False(t, resp.Reminders[0].Overdue)
}

func TestResearchGetAndSave(t *testing.T) {
	s := newTestServer(t)
	app := createApp(t, s, "Acme", "Engineer", "applied")
	path := fmt.Sprintf("/api/applications/%s/research", app.ID)

	w := do(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var getResp struct {
		Research *models.CompanyResearch `json:"research"`
	}
	decode(t, w, &getResp)
	assert.Nil(t, getResp.Research, "untouched application has no research")

	w = do(t, s, http.MethodPut, path, gin.H{"tech_stack": "Go, Postgres"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first models.CompanyResearch
	decode(t, w, &first)
	require.NotEmpty(t, first.ID)

	// a second save edits the same row instead of creating another
	w = do(t, s, http.MethodPut, path, gin.H{"tech_stack": "Go, Postgres", "pros": "strong team"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second models.CompanyResearch
	decode(t, w, &second)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Pros)
	assert.Equal(t, "strong team", *second.Pros)
}
