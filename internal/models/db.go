package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusScreening ApplicationStatus = "screening"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
	StatusAccepted  ApplicationStatus = "accepted"
)

// AllStatuses lists every valid application status, in pipeline order.
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied,
		StatusScreening,
		StatusInterview,
		StatusOffer,
		StatusRejected,
		StatusAccepted,
	}
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type JobApplication struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	CompanyName     string            `json:"company_name"`
	PositionTitle   string            `json:"position_title"`
	JobURL          *string           `json:"job_url,omitempty"`
	Status          ApplicationStatus `json:"status"`
	Location        *string           `json:"location,omitempty"`
	SalaryRange     *string           `json:"salary_range,omitempty"`
	ApplicationDate time.Time         `json:"application_date"`
	FollowUpDate    *time.Time        `json:"follow_up_date,omitempty"`
	Priority        Priority          `json:"priority"`
	Notes           *string           `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Contact may be scoped to one application or left unscoped (nil ApplicationID).
type Contact struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Position      *string   `json:"position,omitempty"`
	Company       *string   `json:"company,omitempty"`
	LinkedinURL   *string   `json:"linkedin_url,omitempty"`
	Relationship  *string   `json:"relationship,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Reminder struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	ReminderDate  time.Time `json:"reminder_date"`
	IsCompleted   bool      `json:"is_completed"`
	CreatedAt     time.Time `json:"created_at"`
}

// Overdue is a derived display property, never stored: a reminder whose date
// has passed and that is still incomplete.
func (r Reminder) Overdue(now time.Time) bool {
	return r.ReminderDate.Before(now) && !r.IsCompleted
}

// CompanyResearch holds at most one row per application. All six text fields
// are optional and saved together as one write.
type CompanyResearch struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ApplicationID   string    `json:"application_id"`
	CompanyCulture  *string   `json:"company_culture,omitempty"`
	TechStack       *string   `json:"tech_stack,omitempty"`
	InterviewPrep   *string   `json:"interview_prep,omitempty"`
	Pros            *string   `json:"pros,omitempty"`
	Cons            *string   `json:"cons,omitempty"`
	AdditionalNotes *string   `json:"additional_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
