package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-jobtrack/internal/database"
	"go-jobtrack/internal/models"
)

// ApplicationList is the list controller: the authoritative in-memory copy
// of the user's applications (newest first) plus the search term and status
// filter the derived view is computed from. The owner id is fixed at
// construction instead of being rediscovered per call.
type ApplicationList struct {
	store  database.Store
	userID string

	list scopedList[models.JobApplication]

	filterMu     sync.Mutex
	searchTerm   string
	statusFilter string
}

func NewApplicationList(store database.Store, userID string) *ApplicationList {
	return &ApplicationList{
		store:        store,
		userID:       userID,
		statusFilter: StatusFilterAll,
	}
}

// Load re-fetches the full collection. A stale response (one overtaken by a
// later Load) is discarded rather than installed.
func (l *ApplicationList) Load(ctx context.Context) error {
	gen := l.list.begin()
	records, err := l.store.ListApplications(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}
	l.list.install(gen, records)
	return nil
}

// Records returns the authoritative copy, unfiltered, newest first.
func (l *ApplicationList) Records() []models.JobApplication {
	return l.list.snapshot()
}

func (l *ApplicationList) SetSearchTerm(term string) {
	l.filterMu.Lock()
	defer l.filterMu.Unlock()
	l.searchTerm = term
}

func (l *ApplicationList) SetStatusFilter(status string) {
	l.filterMu.Lock()
	defer l.filterMu.Unlock()
	l.statusFilter = status
}

// Filtered derives the visible view from the current records, search term
// and status filter.
func (l *ApplicationList) Filtered() []models.JobApplication {
	l.filterMu.Lock()
	term, status := l.searchTerm, l.statusFilter
	l.filterMu.Unlock()
	return FilterApplications(l.list.snapshot(), term, status)
}

// StatusCounts tallies the unfiltered records per status, for the dashboard
// header cards.
func (l *ApplicationList) StatusCounts() map[models.ApplicationStatus]int {
	counts := make(map[models.ApplicationStatus]int)
	for _, app := range l.list.snapshot() {
		counts[app.Status]++
	}
	return counts
}

// Create validates, writes through and reloads. The created record (with its
// assigned id and timestamps) is returned to the caller.
func (l *ApplicationList) Create(ctx context.Context, app models.JobApplication) (*models.JobApplication, error) {
	applyApplicationDefaults(&app)
	if err := validateApplication(&app); err != nil {
		return nil, err
	}
	app.ID = ""
	app.UserID = l.userID
	if err := l.store.CreateApplication(ctx, &app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return &app, nil
}

// Update is a full replace of the editable fields; the store stamps a fresh
// updated_at. Reloads on success. Omitted enum and date fields keep their
// stored values, they are never re-defaulted on edit.
func (l *ApplicationList) Update(ctx context.Context, id string, app models.JobApplication) (*models.JobApplication, error) {
	stored, err := l.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == "" {
		app.Status = stored.Status
	}
	if app.Priority == "" {
		app.Priority = stored.Priority
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = stored.ApplicationDate
	}
	if err := validateApplication(&app); err != nil {
		return nil, err
	}
	app.ID = id
	if err := l.store.UpdateApplication(ctx, &app); err != nil {
		return nil, err
	}
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete issues the destructive call and reloads. Child rows are removed by
// the store's cascade policy. No soft-delete, no undo.
func (l *ApplicationList) Delete(ctx context.Context, id string) error {
	if err := l.store.DeleteApplication(ctx, id); err != nil {
		return err
	}
	return l.Load(ctx)
}

func applyApplicationDefaults(app *models.JobApplication) {
	if app.Status == "" {
		app.Status = models.StatusApplied
	}
	if app.Priority == "" {
		app.Priority = models.PriorityMedium
	}
	if app.ApplicationDate.IsZero() {
		now := time.Now().UTC()
		app.ApplicationDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func validateApplication(app *models.JobApplication) error {
	if strings.TrimSpace(app.CompanyName) == "" {
		return fmt.Errorf("%w: company_name is required", ErrValidation)
	}
	if strings.TrimSpace(app.PositionTitle) == "" {
		return fmt.Errorf("%w: position_title is required", ErrValidation)
	}
	if !app.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, app.Status)
	}
	if !app.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, app.Priority)
	}
	return nil
}
