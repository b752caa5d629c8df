package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-jobtrack/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the local single-file driver, for offline and demo use.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite DB and enables foreign keys so that deleting an
// application cascades to its child rows.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS job_applications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	company_name TEXT NOT NULL,
	position_title TEXT NOT NULL,
	job_url TEXT,
	status TEXT NOT NULL,
	location TEXT,
	salary_range TEXT,
	application_date TEXT NOT NULL,
	follow_up_date TEXT,
	priority TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	application_id TEXT REFERENCES job_applications(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	position TEXT,
	company TEXT,
	linkedin_url TEXT,
	relationship TEXT,
	notes TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	application_id TEXT REFERENCES job_applications(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT,
	reminder_date TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_research (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	application_id TEXT NOT NULL UNIQUE REFERENCES job_applications(id) ON DELETE CASCADE,
	company_culture TEXT,
	tech_stack TEXT,
	interview_prep TEXT,
	pros TEXT,
	cons TEXT,
	additional_notes TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// SQLite has no timestamp type; times are stored as RFC3339 text. The layout
// keeps a fixed-width fraction so lexicographic ORDER BY matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func encodeTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := encodeTime(*t)
	return &s
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func decodeTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := decodeTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ---------------- APPLICATION OPERATIONS ----------------

func (s *SQLiteStore) ListApplications(ctx context.Context, userID string) ([]models.JobApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.JobApplication
	for rows.Next() {
		app, err := scanSQLiteApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (s *SQLiteStore) GetApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE id = ?`
	app, err := scanSQLiteApplication(s.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return app, err
}

func scanSQLiteApplication(scan func(dest ...any) error) (*models.JobApplication, error) {
	var app models.JobApplication
	var appDate, createdAt, updatedAt string
	var followUp *string
	err := scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.PositionTitle, &app.JobURL,
		&app.Status, &app.Location, &app.SalaryRange, &appDate,
		&followUp, &app.Priority, &app.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	if app.ApplicationDate, err = decodeTime(appDate); err != nil {
		return nil, fmt.Errorf("bad application_date: %w", err)
	}
	if app.FollowUpDate, err = decodeTimePtr(followUp); err != nil {
		return nil, fmt.Errorf("bad follow_up_date: %w", err)
	}
	if app.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if app.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &app, nil
}

func (s *SQLiteStore) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	stampNew(&app.ID, &app.CreatedAt)
	app.UpdatedAt = app.CreatedAt

	query := `
		INSERT INTO job_applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		app.ID, app.UserID, app.CompanyName, app.PositionTitle, app.JobURL,
		app.Status, app.Location, app.SalaryRange, encodeTime(app.ApplicationDate),
		encodeTimePtr(app.FollowUpDate), app.Priority, app.Notes,
		encodeTime(app.CreatedAt), encodeTime(app.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateApplication(ctx context.Context, app *models.JobApplication) error {
	app.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE job_applications
		SET company_name = ?, position_title = ?, job_url = ?, status = ?,
		    location = ?, salary_range = ?, application_date = ?,
		    follow_up_date = ?, priority = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		app.CompanyName, app.PositionTitle, app.JobURL, app.Status,
		app.Location, app.SalaryRange, encodeTime(app.ApplicationDate),
		encodeTimePtr(app.FollowUpDate), app.Priority, app.Notes,
		encodeTime(app.UpdatedAt), app.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteApplication(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return requireRow(res)
}

// ---------------- CONTACT OPERATIONS ----------------

func (s *SQLiteStore) ListContacts(ctx context.Context, applicationID string) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE application_id = ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		var createdAt string
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ApplicationID, &c.Name, &c.Email, &c.Phone,
			&c.Position, &c.Company, &c.LinkedinURL, &c.Relationship, &c.Notes, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		if c.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *SQLiteStore) CreateContact(ctx context.Context, c *models.Contact) error {
	stampNew(&c.ID, &c.CreatedAt)

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.ApplicationID, c.Name, c.Email, c.Phone,
		c.Position, c.Company, c.LinkedinURL, c.Relationship, c.Notes,
		encodeTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateContact(ctx context.Context, c *models.Contact) error {
	query := `
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, position = ?, company = ?,
		    linkedin_url = ?, relationship = ?, notes = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		c.Name, c.Email, c.Phone, c.Position, c.Company,
		c.LinkedinURL, c.Relationship, c.Notes, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return requireRow(res)
}

// ---------------- REMINDER OPERATIONS ----------------

func (s *SQLiteStore) scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	var reminders []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		var reminderDate, createdAt string
		var completed int
		if err := rows.Scan(
			&rem.ID, &rem.UserID, &rem.ApplicationID, &rem.Title, &rem.Description,
			&reminderDate, &completed, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		var err error
		if rem.ReminderDate, err = decodeTime(reminderDate); err != nil {
			return nil, fmt.Errorf("bad reminder_date: %w", err)
		}
		if rem.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		rem.IsCompleted = completed != 0
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (s *SQLiteStore) ListReminders(ctx context.Context, applicationID string) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE application_id = ? ORDER BY reminder_date ASC`
	rows, err := s.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()
	return s.scanReminders(rows)
}

func (s *SQLiteStore) DueReminders(ctx context.Context, userID string, now time.Time) ([]models.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE user_id = ? AND is_completed = 0 AND reminder_date <= ?
		ORDER BY reminder_date ASC`
	rows, err := s.db.QueryContext(ctx, query, userID, encodeTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	defer rows.Close()
	return s.scanReminders(rows)
}

func (s *SQLiteStore) CreateReminder(ctx context.Context, rem *models.Reminder) error {
	stampNew(&rem.ID, &rem.CreatedAt)

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rem.ID, rem.UserID, rem.ApplicationID, rem.Title, rem.Description,
		encodeTime(rem.ReminderDate), boolToInt(rem.IsCompleted), encodeTime(rem.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateReminder(ctx context.Context, rem *models.Reminder) error {
	query := `
		UPDATE reminders
		SET title = ?, description = ?, reminder_date = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		rem.Title, rem.Description, encodeTime(rem.ReminderDate), rem.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) SetReminderCompleted(ctx context.Context, id string, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET is_completed = ? WHERE id = ?`, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("failed to toggle reminder: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return requireRow(res)
}

// ---------------- RESEARCH OPERATIONS ----------------

func (s *SQLiteStore) GetResearch(ctx context.Context, applicationID string) (*models.CompanyResearch, error) {
	var res models.CompanyResearch
	var createdAt, updatedAt string
	query := `SELECT ` + researchColumns + ` FROM company_research WHERE application_id = ?`
	err := s.db.QueryRowContext(ctx, query, applicationID).Scan(
		&res.ID, &res.UserID, &res.ApplicationID, &res.CompanyCulture, &res.TechStack,
		&res.InterviewPrep, &res.Pros, &res.Cons, &res.AdditionalNotes,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get research: %w", err)
	}
	if res.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if res.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &res, nil
}

func (s *SQLiteStore) CreateResearch(ctx context.Context, res *models.CompanyResearch) error {
	stampNew(&res.ID, &res.CreatedAt)
	res.UpdatedAt = res.CreatedAt

	query := `
		INSERT INTO company_research (` + researchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		res.ID, res.UserID, res.ApplicationID, res.CompanyCulture, res.TechStack,
		res.InterviewPrep, res.Pros, res.Cons, res.AdditionalNotes,
		encodeTime(res.CreatedAt), encodeTime(res.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create research: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateResearch(ctx context.Context, res *models.CompanyResearch) error {
	res.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE company_research
		SET company_culture = ?, tech_stack = ?, interview_prep = ?,
		    pros = ?, cons = ?, additional_notes = ?, updated_at = ?
		WHERE id = ?`
	r, err := s.db.ExecContext(ctx, query,
		res.CompanyCulture, res.TechStack, res.InterviewPrep,
		res.Pros, res.Cons, res.AdditionalNotes, encodeTime(res.UpdatedAt), res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update research: %w", err)
	}
	return requireRow(r)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
