package api

import (
	"fmt"
	"net/http"
	"time"

	"go-jobtrack/internal/models"
	"go-jobtrack/internal/tracker"

	"github.com/gin-gonic/gin"
)

// Dates arrive as "2006-01-02" strings, matching the original form inputs.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q (expected YYYY-MM-DD)", tracker.ErrValidation, s)
	}
	return t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ---------------- APPLICATIONS ----------------

type applicationRequest struct {
	CompanyName     string  `json:"company_name"`
	PositionTitle   string  `json:"position_title"`
	JobURL          *string `json:"job_url"`
	Status          string  `json:"status"`
	Location        *string `json:"location"`
	SalaryRange     *string `json:"salary_range"`
	ApplicationDate string  `json:"application_date"`
	FollowUpDate    *string `json:"follow_up_date"`
	Priority        string  `json:"priority"`
	Notes           *string `json:"notes"`
}

func (r applicationRequest) toModel() (models.JobApplication, error) {
	app := models.JobApplication{
		CompanyName:   r.CompanyName,
		PositionTitle: r.PositionTitle,
		JobURL:        r.JobURL,
		Status:        models.ApplicationStatus(r.Status),
		Location:      r.Location,
		SalaryRange:   r.SalaryRange,
		Priority:      models.Priority(r.Priority),
		Notes:         r.Notes,
	}
	if r.ApplicationDate != "" {
		d, err := parseDate(r.ApplicationDate)
		if err != nil {
			return app, err
		}
		app.ApplicationDate = d
	}
	followUp, err := parseDatePtr(r.FollowUpDate)
	if err != nil {
		return app, err
	}
	app.FollowUpDate = followUp
	return app, nil
}

func (s *Server) listApplications(c *gin.Context) {
	apps := s.tracker.Applications
	if err := apps.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	// derive the view per request; concurrent requests with different
	// filters must not see each other's state
	status := c.Query("status")
	if status == "" {
		status = tracker.StatusFilterAll
	}
	view := tracker.FilterApplications(apps.Records(), c.Query("search"), status)
	c.JSON(http.StatusOK, gin.H{"applications": view})
}

func (s *Server) createApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	app, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	created, err := s.tracker.Applications.Create(c.Request.Context(), app)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	app, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.tracker.Applications.Update(c.Request.Context(), c.Param("id"), app)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteApplication(c *gin.Context) {
	if err := s.tracker.Applications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) stats(c *gin.Context) {
	apps := s.tracker.Applications
	if err := apps.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     len(apps.Records()),
		"by_status": apps.StatusCounts(),
	})
}

// ---------------- CONTACTS ----------------

type contactRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Position     *string `json:"position"`
	Company      *string `json:"company"`
	LinkedinURL  *string `json:"linkedin_url"`
	Relationship *string `json:"relationship"`
	Notes        *string `json:"notes"`
}

func (r contactRequest) toModel() models.Contact {
	return models.Contact{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Position:     r.Position,
		Company:      r.Company,
		LinkedinURL:  r.LinkedinURL,
		Relationship: r.Relationship,
		Notes:        r.Notes,
	}
}

func (s *Server) listContacts(c *gin.Context) {
	contacts := s.tracker.Contacts(c.Param("id"))
	if err := contacts.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts.Items()})
}

func (s *Server) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	created, err := s.tracker.Contacts(c.Param("id")).Create(c.Request.Context(), req.toModel())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	updated, err := s.tracker.Contacts(c.Param("id")).Update(c.Request.Context(), c.Param("cid"), req.toModel())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteContact(c *gin.Context) {
	if err := s.tracker.Contacts(c.Param("id")).Delete(c.Request.Context(), c.Param("cid")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------------- REMINDERS ----------------

type reminderRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ReminderDate string  `json:"reminder_date"`
}

func (r reminderRequest) toModel() (models.Reminder, error) {
	rem := models.Reminder{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.ReminderDate != "" {
		d, err := parseDate(r.ReminderDate)
		if err != nil {
			return rem, err
		}
		rem.ReminderDate = d
	}
	return rem, nil
}

// reminderView adds the derived overdue flag to the stored record.
type reminderView struct {
	models.Reminder
	Overdue bool `json:"overdue"`
}

func reminderViews(items []models.Reminder) []reminderView {
	now := time.Now().UTC()
	views := make([]reminderView, 0, len(items))
	for _, rem := range items {
		views = append(views, reminderView{Reminder: rem, Overdue: rem.Overdue(now)})
	}
	return views
}

func (s *Server) listReminders(c *gin.Context) {
	reminders := s.tracker.Reminders(c.Param("id"))
	if err := reminders.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminderViews(reminders.Items())})
}

func (s *Server) createReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	rem, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	created, err := s.tracker.Reminders(c.Param("id")).Create(c.Request.Context(), rem)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	rem, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.tracker.Reminders(c.Param("id")).Update(c.Request.Context(), c.Param("rid"), rem)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteReminder(c *gin.Context) {
	if err := s.tracker.Reminders(c.Param("id")).Delete(c.Request.Context(), c.Param("rid")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) toggleReminder(c *gin.Context) {
	reminders := s.tracker.Reminders(c.Param("id"))
	if err := reminders.ToggleComplete(c.Request.Context(), c.Param("rid")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminderViews(reminders.Items())})
}

// ---------------- COMPANY RESEARCH ----------------

type researchRequest struct {
	CompanyCulture  *string `json:"company_culture"`
	TechStack       *string `json:"tech_stack"`
	InterviewPrep   *string `json:"interview_prep"`
	Pros            *string `json:"pros"`
	Cons            *string `json:"cons"`
	AdditionalNotes *string `json:"additional_notes"`
}

func (s *Server) getResearch(c *gin.Context) {
	panel := s.tracker.Research(c.Param("id"))
	if err := panel.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	// absence is a normal empty state
	c.JSON(http.StatusOK, gin.H{"research": panel.Current()})
}

func (s *Server) saveResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	saved, err := s.tracker.Research(c.Param("id")).Save(c.Request.Context(), models.CompanyResearch{
		CompanyCulture:  req.CompanyCulture,
		TechStack:       req.TechStack,
		InterviewPrep:   req.InterviewPrep,
		Pros:            req.Pros,
		Cons:            req.Cons,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
