package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-jobtrack/internal/database"
	"go-jobtrack/internal/models"
)

// The detail controllers are the list controller pattern narrowed to one
// parent application: same cache, same reload-after-write, filter key is
// application_id instead of user_id.

// ---------------- CONTACTS ----------------

type ContactList struct {
	store         database.Store
	userID        string
	applicationID string
	list          scopedList[models.Contact]
}

func NewContactList(store database.Store, userID, applicationID string) *ContactList {
	return &ContactList{store: store, userID: userID, applicationID: applicationID}
}

func (c *ContactList) Load(ctx context.Context) error {
	gen := c.list.begin()
	items, err := c.store.ListContacts(ctx, c.applicationID)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	c.list.install(gen, items)
	return nil
}

func (c *ContactList) Items() []models.Contact {
	return c.list.snapshot()
}

func (c *ContactList) Create(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	if err := validateContact(&contact); err != nil {
		return nil, err
	}
	contact.ID = ""
	c.scope(&contact)
	if err := c.store.CreateContact(ctx, &contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &contact, c.Load(ctx)
}

func (c *ContactList) Update(ctx context.Context, id string, contact models.Contact) (*models.Contact, error) {
	if err := validateContact(&contact); err != nil {
		return nil, err
	}
	contact.ID = id
	c.scope(&contact)
	if err := c.store.UpdateContact(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, c.Load(ctx)
}

func (c *ContactList) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteContact(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *ContactList) scope(contact *models.Contact) {
	appID := c.applicationID
	contact.UserID = c.userID
	contact.ApplicationID = &appID
}

func validateContact(contact *models.Contact) error {
	if strings.TrimSpace(contact.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

// ---------------- REMINDERS ----------------

type ReminderList struct {
	store         database.Store
	userID        string
	applicationID string
	list          scopedList[models.Reminder]
}

func NewReminderList(store database.Store, userID, applicationID string) *ReminderList {
	return &ReminderList{store: store, userID: userID, applicationID: applicationID}
}

func (r *ReminderList) Load(ctx context.Context) error {
	gen := r.list.begin()
	items, err := r.store.ListReminders(ctx, r.applicationID)
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	r.list.install(gen, items)
	return nil
}

// Items returns the cached reminders, soonest date first.
func (r *ReminderList) Items() []models.Reminder {
	return r.list.snapshot()
}

func (r *ReminderList) Create(ctx context.Context, rem models.Reminder) (*models.Reminder, error) {
	if err := validateReminder(&rem); err != nil {
		return nil, err
	}
	rem.ID = ""
	r.scope(&rem)
	if err := r.store.CreateReminder(ctx, &rem); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return &rem, r.Load(ctx)
}

func (r *ReminderList) Update(ctx context.Context, id string, rem models.Reminder) (*models.Reminder, error) {
	if err := validateReminder(&rem); err != nil {
		return nil, err
	}
	rem.ID = id
	r.scope(&rem)
	if err := r.store.UpdateReminder(ctx, &rem); err != nil {
		return nil, err
	}
	if err := r.Load(ctx); err != nil {
		return nil, err
	}
	// completion is not an editable field, report the stored state
	if got, ok := r.find(id); ok {
		return &got, nil
	}
	return &rem, nil
}

func (r *ReminderList) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteReminder(ctx, id); err != nil {
		return err
	}
	return r.Load(ctx)
}

// ToggleComplete flips is_completed through a single-field update, then
// reloads. Both directions are always available; applying it twice returns
// the reminder to its original state.
func (r *ReminderList) ToggleComplete(ctx context.Context, id string) error {
	current, ok := r.find(id)
	if !ok {
		// cache may be cold, fetch once before giving up
		if err := r.Load(ctx); err != nil {
			return err
		}
		if current, ok = r.find(id); !ok {
			return database.ErrNotFound
		}
	}
	if err := r.store.SetReminderCompleted(ctx, id, !current.IsCompleted); err != nil {
		return err
	}
	return r.Load(ctx)
}

func (r *ReminderList) find(id string) (models.Reminder, bool) {
	for _, item := range r.list.snapshot() {
		if item.ID == id {
			return item, true
		}
	}
	return models.Reminder{}, false
}

func (r *ReminderList) scope(rem *models.Reminder) {
	appID := r.applicationID
	rem.UserID = r.userID
	rem.ApplicationID = &appID
}

func validateReminder(rem *models.Reminder) error {
	if strings.TrimSpace(rem.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if rem.ReminderDate.IsZero() {
		return fmt.Errorf("%w: reminder_date is required", ErrValidation)
	}
	return nil
}

// ---------------- COMPANY RESEARCH ----------------

// ResearchPanel manages the singleton research record of one application.
// Absence is a normal empty state; Save inserts on first write and updates
// from then on, always as one combined write over all six fields.
type ResearchPanel struct {
	store         database.Store
	userID        string
	applicationID string

	mu      sync.Mutex
	loaded  bool
	current *models.CompanyResearch
}

func NewResearchPanel(store database.Store, userID, applicationID string) *ResearchPanel {
	return &ResearchPanel{store: store, userID: userID, applicationID: applicationID}
}

func (p *ResearchPanel) Load(ctx context.Context) error {
	res, err := p.store.GetResearch(ctx, p.applicationID)
	if err != nil {
		return fmt.Errorf("failed to load research: %w", err)
	}
	p.mu.Lock()
	p.current = res
	p.loaded = true
	p.mu.Unlock()
	return nil
}

// Current returns a copy of the cached record, or nil when none exists yet.
func (p *ResearchPanel) Current() *models.CompanyResearch {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	out := *p.current
	return &out
}

// Save writes all six fields at once: an update when a row already exists,
// an insert otherwise. The assigned id is reused for every later save, so a
// second row for the same application is never created.
func (p *ResearchPanel) Save(ctx context.Context, fields models.CompanyResearch) (*models.CompanyResearch, error) {
	p.mu.Lock()
	loaded := p.loaded
	p.mu.Unlock()
	if !loaded {
		// never branch on a cold cache, it would duplicate the singleton
		if err := p.Load(ctx); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	existingID := ""
	if p.current != nil {
		existingID = p.current.ID
	}
	p.mu.Unlock()

	fields.UserID = p.userID
	fields.ApplicationID = p.applicationID

	if existingID != "" {
		fields.ID = existingID
		if err := p.store.UpdateResearch(ctx, &fields); err != nil {
			return nil, err
		}
	} else {
		fields.ID = ""
		if err := p.store.CreateResearch(ctx, &fields); err != nil {
			return nil, fmt.Errorf("failed to create research: %w", err)
		}
	}

	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	return p.Current(), nil
}
