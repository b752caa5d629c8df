// Controllers over the record store: one list controller for applications
// and three detail controllers scoped to a single application. All of them
// follow the same reload-after-write policy: a mutation is never patched
// into local state, the owning collection is re-fetched instead.

package tracker

import (
	"errors"
	"sync"

	"go-jobtrack/internal/database"
)

// ErrValidation marks a record rejected before it reaches the store.
var ErrValidation = errors.New("invalid record")

// Tracker owns the controllers for one user. Detail controllers are created
// lazily per application and cached, matching one open detail view each.
type Tracker struct {
	store  database.Store
	userID string

	Applications *ApplicationList

	mu        sync.Mutex
	contacts  map[string]*ContactList
	reminders map[string]*ReminderList
	research  map[string]*ResearchPanel
}

func New(store database.Store, userID string) *Tracker {
	return &Tracker{
		store:        store,
		userID:       userID,
		Applications: NewApplicationList(store, userID),
		contacts:     make(map[string]*ContactList),
		reminders:    make(map[string]*ReminderList),
		research:     make(map[string]*ResearchPanel),
	}
}

func (t *Tracker) Contacts(applicationID string) *ContactList {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.contacts[applicationID]
	if !ok {
		c = NewContactList(t.store, t.userID, applicationID)
		t.contacts[applicationID] = c
	}
	return c
}

func (t *Tracker) Reminders(applicationID string) *ReminderList {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.reminders[applicationID]
	if !ok {
		r = NewReminderList(t.store, t.userID, applicationID)
		t.reminders[applicationID] = r
	}
	return r
}

func (t *Tracker) Research(applicationID string) *ResearchPanel {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.research[applicationID]
	if !ok {
		r = NewResearchPanel(t.store, t.userID, applicationID)
		t.research[applicationID] = r
	}
	return r
}

// scopedList is the shared cache core of every collection controller: the
// authoritative in-memory copy plus a request generation counter. begin
// marks a reload as issued; install refuses to apply a response that was
// overtaken by a later reload, so a slow early response can never clobber
// the state installed by a faster later one.
type scopedList[T any] struct {
	mu    sync.Mutex
	gen   uint64
	items []T
}

func (s *scopedList[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *scopedList[T]) install(gen uint64, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.items = items
	return true
}

func (s *scopedList[T]) snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}
