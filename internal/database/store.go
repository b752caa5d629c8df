package database

import (
	"context"
	"errors"
	"time"

	"go-jobtrack/internal/models"
)

// ErrNotFound is returned when an update or delete targets a row that does
// not exist. The singleton research lookup does NOT use it: absence there is
// a normal empty state and GetResearch returns (nil, nil).
var ErrNotFound = errors.New("record not found")

// Store is the record store client: per-table filtered select, insert,
// update-by-id and delete-by-id against the four entity tables. Every filter
// is an equality predicate on user_id or application_id; ordering is fixed
// per table (applications and contacts newest first, reminders by date).
//
// Insert methods assign the id and server timestamps on the passed record.
// Deleting an application cascades to its contacts, reminders and research.
type Store interface {
	ListApplications(ctx context.Context, userID string) ([]models.JobApplication, error)
	GetApplication(ctx context.Context, id string) (*models.JobApplication, error)
	CreateApplication(ctx context.Context, app *models.JobApplication) error
	UpdateApplication(ctx context.Context, app *models.JobApplication) error
	DeleteApplication(ctx context.Context, id string) error

	ListContacts(ctx context.Context, applicationID string) ([]models.Contact, error)
	CreateContact(ctx context.Context, c *models.Contact) error
	UpdateContact(ctx context.Context, c *models.Contact) error
	DeleteContact(ctx context.Context, id string) error

	ListReminders(ctx context.Context, applicationID string) ([]models.Reminder, error)
	DueReminders(ctx context.Context, userID string, now time.Time) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, r *models.Reminder) error
	// UpdateReminder rewrites title, description and reminder_date only;
	// is_completed changes through SetReminderCompleted alone.
	UpdateReminder(ctx context.Context, r *models.Reminder) error
	SetReminderCompleted(ctx context.Context, id string, completed bool) error
	DeleteReminder(ctx context.Context, id string) error

	// GetResearch returns (nil, nil) when no row exists for the application.
	GetResearch(ctx context.Context, applicationID string) (*models.CompanyResearch, error)
	CreateResearch(ctx context.Context, r *models.CompanyResearch) error
	UpdateResearch(ctx context.Context, r *models.CompanyResearch) error

	Close()
}
