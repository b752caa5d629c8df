package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-jobtrack/internal/models"
)

// MemoryStore keeps everything in process memory. Used by the "memory"
// config driver for throwaway demos and by tests. Rows are held in insertion
// order so newest-first listings stay deterministic even when two inserts
// land on the same clock tick.
type MemoryStore struct {
	mu           sync.Mutex
	applications []models.JobApplication
	contacts     []models.Contact
	reminders    []models.Reminder
	research     []models.CompanyResearch
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Close() {}

// ---------------- APPLICATION OPERATIONS ----------------

func (m *MemoryStore) ListApplications(_ context.Context, userID string) ([]models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var apps []models.JobApplication
	for i := len(m.applications) - 1; i >= 0; i-- {
		if m.applications[i].UserID == userID {
			apps = append(apps, m.applications[i])
		}
	}
	return apps, nil
}

func (m *MemoryStore) GetApplication(_ context.Context, id string) (*models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, app := range m.applications {
		if app.ID == id {
			out := app
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateApplication(_ context.Context, app *models.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampNew(&app.ID, &app.CreatedAt)
	app.UpdatedAt = app.CreatedAt
	m.applications = append(m.applications, *app)
	return nil
}

func (m *MemoryStore) UpdateApplication(_ context.Context, app *models.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.applications {
		if m.applications[i].ID == app.ID {
			app.UserID = m.applications[i].UserID
			app.CreatedAt = m.applications[i].CreatedAt
			app.UpdatedAt = time.Now().UTC()
			m.applications[i] = *app
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteApplication(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	m.applications = deleteWhere(m.applications, func(a models.JobApplication) bool {
		if a.ID == id {
			found = true
			return true
		}
		return false
	})
	if !found {
		return ErrNotFound
	}

	// cascade, mirroring the relational drivers' ON DELETE CASCADE
	m.contacts = deleteWhere(m.contacts, func(c models.Contact) bool {
		return c.ApplicationID != nil && *c.ApplicationID == id
	})
	m.reminders = deleteWhere(m.reminders, func(r models.Reminder) bool {
		return r.ApplicationID != nil && *r.ApplicationID == id
	})
	m.research = deleteWhere(m.research, func(r models.CompanyResearch) bool {
		return r.ApplicationID == id
	})
	return nil
}

// ---------------- CONTACT OPERATIONS ----------------

func (m *MemoryStore) ListContacts(_ context.Context, applicationID string) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var contacts []models.Contact
	for i := len(m.contacts) - 1; i >= 0; i-- {
		c := m.contacts[i]
		if c.ApplicationID != nil && *c.ApplicationID == applicationID {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func (m *MemoryStore) CreateContact(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampNew(&c.ID, &c.CreatedAt)
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *MemoryStore) UpdateContact(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.contacts {
		if m.contacts[i].ID == c.ID {
			c.UserID = m.contacts[i].UserID
			c.CreatedAt = m.contacts[i].CreatedAt
			m.contacts[i] = *c
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteContact(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	m.contacts = deleteWhere(m.contacts, func(c models.Contact) bool {
		if c.ID == id {
			found = true
			return true
		}
		return false
	})
	if !found {
		return ErrNotFound
	}
	return nil
}

// ---------------- REMINDER OPERATIONS ----------------

func (m *MemoryStore) ListReminders(_ context.Context, applicationID string) ([]models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reminders []models.Reminder
	for _, r := range m.reminders {
		if r.ApplicationID != nil && *r.ApplicationID == applicationID {
			reminders = append(reminders, r)
		}
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].ReminderDate.Before(reminders[j].ReminderDate)
	})
	return reminders, nil
}

func (m *MemoryStore) DueReminders(_ context.Context, userID string, now time.Time) ([]models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []models.Reminder
	for _, r := range m.reminders {
		if r.UserID == userID && !r.IsCompleted && !r.ReminderDate.After(now) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ReminderDate.Before(due[j].ReminderDate)
	})
	return due, nil
}

func (m *MemoryStore) CreateReminder(_ context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampNew(&r.ID, &r.CreatedAt)
	m.reminders = append(m.reminders, *r)
	return nil
}

func (m *MemoryStore) UpdateReminder(_ context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reminders {
		if m.reminders[i].ID == r.ID {
			r.UserID = m.reminders[i].UserID
			r.CreatedAt = m.reminders[i].CreatedAt
			r.IsCompleted = m.reminders[i].IsCompleted
			m.reminders[i] = *r
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) SetReminderCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reminders {
		if m.reminders[i].ID == id {
			m.reminders[i].IsCompleted = completed
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteReminder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	m.reminders = deleteWhere(m.reminders, func(r models.Reminder) bool {
		if r.ID == id {
			found = true
			return true
		}
		return false
	})
	if !found {
		return ErrNotFound
	}
	return nil
}

// ---------------- RESEARCH OPERATIONS ----------------

func (m *MemoryStore) GetResearch(_ context.Context, applicationID string) (*models.CompanyResearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.research {
		if r.ApplicationID == applicationID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateResearch(_ context.Context, r *models.CompanyResearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampNew(&r.ID, &r.CreatedAt)
	r.UpdatedAt = r.CreatedAt
	m.research = append(m.research, *r)
	return nil
}

func (m *MemoryStore) UpdateResearch(_ context.Context, r *models.CompanyResearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.research {
		if m.research[i].ID == r.ID {
			r.UserID = m.research[i].UserID
			r.ApplicationID = m.research[i].ApplicationID
			r.CreatedAt = m.research[i].CreatedAt
			r.UpdatedAt = time.Now().UTC()
			m.research[i] = *r
			return nil
		}
	}
	return ErrNotFound
}

func deleteWhere[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
