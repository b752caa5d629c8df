package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-jobtrack/internal/database"
	"go-jobtrack/internal/models"
)

const testUser = "user-1"

func newTestList(t *testing.T) (*ApplicationList, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	return NewApplicationList(store, testUser), store
}

func TestCreateThenLoadPlacesRecordAtHead(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	first, err := list.Create(ctx, models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := list.Create(ctx, models.JobApplication{CompanyName: "Globex", PositionTitle: "Developer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	records := list.Records()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != second.ID {
		t.Errorf("newest record not at head: got %s, want %s", records[0].ID, second.ID)
	}
	if records[1].ID != first.ID {
		t.Errorf("older record not second: got %s, want %s", records[1].ID, first.ID)
	}

	// present exactly once
	seen := 0
	for _, r := range records {
		if r.ID == second.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("created record present %d times, want 1", seen)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	list, _ := newTestList(t)

	created, err := list.Create(context.Background(), models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.StatusApplied {
		t.Errorf("default status: got %s, want applied", created.Status)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("default priority: got %s, want medium", created.Priority)
	}
	if created.ApplicationDate.IsZero() {
		t.Error("application date not defaulted to creation day")
	}
	if created.ID == "" {
		t.Error("id not assigned")
	}
}

func TestCreateValidation(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	tests := []struct {
		name string
		app  models.JobApplication
	}{
		{"missing company", models.JobApplication{PositionTitle: "Engineer"}},
		{"missing position", models.JobApplication{CompanyName: "Acme"}},
		{"unknown status", models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer", Status: "ghosted"}},
		{"unknown priority", models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer", Priority: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := list.Create(ctx, tt.app); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
	if len(list.Records()) != 0 {
		t.Error("rejected records must not reach the store")
	}
}

func TestDeleteThenLoadRemovesRecord(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	created, err := list.Create(ctx, models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := list.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, r := range list.Records() {
		if r.ID == created.ID {
			t.Error("deleted record still present after reload")
		}
	}
}

func TestDeleteUnknownID(t *testing.T) {
	list, _ := newTestList(t)
	if err := list.Delete(context.Background(), "nope"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateReplacesEditableFields(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	created, err := list.Create(ctx, models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edited := *created
	edited.Status = models.StatusInterview
	edited.Location = strPtr("Remote")
	if _, err := list.Update(ctx, created.ID, edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	records := list.Records()
	if records[0].Status != models.StatusInterview {
		t.Errorf("status not replaced: got %s", records[0].Status)
	}
	if records[0].Location == nil || *records[0].Location != "Remote" {
		t.Error("location not replaced")
	}
	if !records[0].UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at not refreshed")
	}
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	date := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := list.Create(ctx, models.JobApplication{
		CompanyName:     "Acme",
		PositionTitle:   "Engineer",
		Status:          models.StatusInterview,
		Priority:        models.PriorityHigh,
		ApplicationDate: date,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// an edit that only touches the notes: status, priority and date keep
	// their stored values instead of being re-defaulted
	updated, err := list.Update(ctx, created.ID, models.JobApplication{
		CompanyName:   "Acme",
		PositionTitle: "Engineer",
		Notes:         strPtr("spoke to hiring manager"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusInterview {
		t.Errorf("status re-defaulted: got %s", updated.Status)
	}
	if updated.Priority != models.PriorityHigh {
		t.Errorf("priority re-defaulted: got %s", updated.Priority)
	}
	if !updated.ApplicationDate.Equal(date) {
		t.Errorf("application date rewritten: got %s", updated.ApplicationDate)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	list, _ := newTestList(t)
	_, err := list.Update(context.Background(), "nope", models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer"})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// End-to-end list scenario: create, filter empty on a non-matching status,
// back to "all" restores the record.
func TestStatusFilterScenario(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	if _, err := list.Create(ctx, models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer", Status: models.StatusApplied}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(list.Filtered()); got != 1 {
		t.Fatalf("initial list: got %d, want 1", got)
	}

	list.SetStatusFilter("interview")
	if got := len(list.Filtered()); got != 0 {
		t.Fatalf("interview filter: got %d, want 0", got)
	}

	list.SetStatusFilter(StatusFilterAll)
	if got := len(list.Filtered()); got != 1 {
		t.Fatalf("all filter: got %d, want 1", got)
	}
}

func TestStatusCounts(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	for _, status := range []models.ApplicationStatus{models.StatusApplied, models.StatusApplied, models.StatusOffer} {
		if _, err := list.Create(ctx, models.JobApplication{CompanyName: "Acme", PositionTitle: "Engineer", Status: status}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	counts := list.StatusCounts()
	if counts[models.StatusApplied] != 2 || counts[models.StatusOffer] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

// staleStore delays the first list response until released, so the test can
// interleave a second, faster load in between.
type staleStore struct {
	*database.MemoryStore
	mu          sync.Mutex
	calls       int
	entered     chan struct{}
	release     chan struct{}
	firstResult []models.JobApplication
}

func (s *staleStore) ListApplications(ctx context.Context, userID string) ([]models.JobApplication, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if call == 1 {
		close(s.entered)
		<-s.release
		return s.firstResult, nil
	}
	return s.MemoryStore.ListApplications(ctx, userID)
}

func TestStaleLoadResponseIsDiscarded(t *testing.T) {
	mem := database.NewMemoryStore()
	ctx := context.Background()

	current := models.JobApplication{UserID: testUser, CompanyName: "Globex", PositionTitle: "Developer"}
	if err := mem.CreateApplication(ctx, &current); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := &staleStore{
		MemoryStore: mem,
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
		firstResult: []models.JobApplication{{ID: "stale", UserID: testUser, CompanyName: "Old Co", PositionTitle: "Old Role"}},
	}
	list := NewApplicationList(store, testUser)

	done := make(chan error, 1)
	go func() { done <- list.Load(ctx) }()
	<-store.entered // first load issued and in flight

	// second load overtakes it
	if err := list.Load(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}

	records := list.Records()
	if len(records) != 1 || records[0].ID != current.ID {
		t.Fatalf("stale response overwrote newer state: %+v", records)
	}
}
