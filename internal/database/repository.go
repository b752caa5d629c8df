package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the hosted-Postgres driver (Supabase style).
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- APPLICATION OPERATIONS ----------------

const applicationColumns = `id, user_id, company_name, position_title, job_url, status, location, salary_range, application_date, follow_up_date, priority, notes, created_at, updated_at`

func scanApplication(row pgx.Row, app *models.JobApplication) error {
	return row.Scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.PositionTitle, &app.JobURL,
		&app.Status, &app.Location, &app.SalaryRange, &app.ApplicationDate,
		&app.FollowUpDate, &app.Priority, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	)
}

func (r *Repository) ListApplications(ctx context.Context, userID string) ([]models.JobApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.JobApplication
	for rows.Next() {
		var app models.JobApplication
		if err := scanApplication(rows, &app); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *Repository) GetApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE id = $1`
	err := scanApplication(r.db.QueryRow(ctx, query, id), &app)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *Repository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	stampNew(&app.ID, &app.CreatedAt)
	app.UpdatedAt = app.CreatedAt

	query := `
		INSERT INTO job_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		app.ID, app.UserID, app.CompanyName, app.PositionTitle, app.JobURL,
		app.Status, app.Location, app.SalaryRange, app.ApplicationDate,
		app.FollowUpDate, app.Priority, app.Notes, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *Repository) UpdateApplication(ctx context.Context, app *models.JobApplication) error {
	app.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE job_applications
		SET company_name = $1, position_title = $2, job_url = $3, status = $4,
		    location = $5, salary_range = $6, application_date = $7,
		    follow_up_date = $8, priority = $9, notes = $10, updated_at = $11
		WHERE id = $12`
	tag, err := r.db.Exec(ctx, query,
		app.CompanyName, app.PositionTitle, app.JobURL, app.Status,
		app.Location, app.SalaryRange, app.ApplicationDate,
		app.FollowUpDate, app.Priority, app.Notes, app.UpdatedAt, app.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplication relies on ON DELETE CASCADE in the hosted schema to
// remove child contacts, reminders and research rows.
func (r *Repository) DeleteApplication(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- CONTACT OPERATIONS ----------------

const contactColumns = `id, user_id, application_id, name, email, phone, position, company, linkedin_url, relationship, notes, created_at`

func (r *Repository) ListContacts(ctx context.Context, applicationID string) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE application_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ApplicationID, &c.Name, &c.Email, &c.Phone,
			&c.Position, &c.Company, &c.LinkedinURL, &c.Relationship, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *Repository) CreateContact(ctx context.Context, c *models.Contact) error {
	stampNew(&c.ID, &c.CreatedAt)

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.UserID, c.ApplicationID, c.Name, c.Email, c.Phone,
		c.Position, c.Company, c.LinkedinURL, c.Relationship, c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *Repository) UpdateContact(ctx context.Context, c *models.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, position = $4, company = $5,
		    linkedin_url = $6, relationship = $7, notes = $8
		WHERE id = $9`
	tag, err := r.db.Exec(ctx, query,
		c.Name, c.Email, c.Phone, c.Position, c.Company,
		c.LinkedinURL, c.Relationship, c.Notes, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteContact(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- REMINDER OPERATIONS ----------------

const reminderColumns = `id, user_id, application_id, title, description, reminder_date, is_completed, created_at`

func (r *Repository) listReminders(ctx context.Context, query string, arg any) ([]models.Reminder, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.UserID, &rem.ApplicationID, &rem.Title, &rem.Description,
			&rem.ReminderDate, &rem.IsCompleted, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *Repository) ListReminders(ctx context.Context, applicationID string) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE application_id = $1 ORDER BY reminder_date ASC`
	return r.listReminders(ctx, query, applicationID)
}

func (r *Repository) DueReminders(ctx context.Context, userID string, now time.Time) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 AND is_completed = FALSE ORDER BY reminder_date ASC`
	reminders, err := r.listReminders(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	var due []models.Reminder
	for _, rem := range reminders {
		if !rem.ReminderDate.After(now) {
			due = append(due, rem)
		}
	}
	return due, nil
}

func (r *Repository) CreateReminder(ctx context.Context, rem *models.Reminder) error {
	stampNew(&rem.ID, &rem.CreatedAt)

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		rem.ID, rem.UserID, rem.ApplicationID, rem.Title, rem.Description,
		rem.ReminderDate, rem.IsCompleted, rem.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// UpdateReminder rewrites the editable fields only; is_completed is owned by
// SetReminderCompleted and survives edits untouched.
func (r *Repository) UpdateReminder(ctx context.Context, rem *models.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $1, description = $2, reminder_date = $3
		WHERE id = $4`
	tag, err := r.db.Exec(ctx, query,
		rem.Title, rem.Description, rem.ReminderDate, rem.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReminderCompleted flips the completion flag alone, leaving the rest of
// the row untouched.
func (r *Repository) SetReminderCompleted(ctx context.Context, id string, completed bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE reminders SET is_completed = $1 WHERE id = $2`, completed, id)
	if err != nil {
		return fmt.Errorf("failed to toggle reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteReminder(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- RESEARCH OPERATIONS ----------------

const researchColumns = `id, user_id, application_id, company_culture, tech_stack, interview_prep, pros, cons, additional_notes, created_at, updated_at`

// GetResearch is a find-at-most-one lookup; a missing row is a normal empty
// state, not an error.
func (r *Repository) GetResearch(ctx context.Context, applicationID string) (*models.CompanyResearch, error) {
	var res models.CompanyResearch
	query := `SELECT ` + researchColumns + ` FROM company_research WHERE application_id = $1`
	err := r.db.QueryRow(ctx, query, applicationID).Scan(
		&res.ID, &res.UserID, &res.ApplicationID, &res.CompanyCulture, &res.TechStack,
		&res.InterviewPrep, &res.Pros, &res.Cons, &res.AdditionalNotes,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get research: %w", err)
	}
	return &res, nil
}

func (r *Repository) CreateResearch(ctx context.Context, res *models.CompanyResearch) error {
	stampNew(&res.ID, &res.CreatedAt)
	res.UpdatedAt = res.CreatedAt

	query := `
		INSERT INTO company_research (` + researchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		res.ID, res.UserID, res.ApplicationID, res.CompanyCulture, res.TechStack,
		res.InterviewPrep, res.Pros, res.Cons, res.AdditionalNotes,
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create research: %w", err)
	}
	return nil
}

func (r *Repository) UpdateResearch(ctx context.Context, res *models.CompanyResearch) error {
	res.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE company_research
		SET company_culture = $1, tech_stack = $2, interview_prep = $3,
		    pros = $4, cons = $5, additional_notes = $6, updated_at = $7
		WHERE id = $8`
	tag, err := r.db.Exec(ctx, query,
		res.CompanyCulture, res.TechStack, res.InterviewPrep,
		res.Pros, res.Cons, res.AdditionalNotes, res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update research: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// stampNew assigns the opaque id and creation timestamp for a fresh row.
func stampNew(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	*createdAt = time.Now().UTC()
}
