package tracker

import (
	"testing"

	"go-jobtrack/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleRecords() []models.JobApplication {
	return []models.JobApplication{
		{ID: "1", CompanyName: "Acme Corp", PositionTitle: "Backend Engineer", Location: strPtr("Berlin"), Status: models.StatusApplied},
		{ID: "2", CompanyName: "Globex", PositionTitle: "Go Developer", Location: nil, Status: models.StatusInterview},
		{ID: "3", CompanyName: "Initech", PositionTitle: "SRE", Location: strPtr("Hà Nội"), Status: models.StatusApplied},
		{ID: "4", CompanyName: "Umbrella", PositionTitle: "Platform Engineer", Location: strPtr("berlin"), Status: models.StatusRejected},
	}
}

func TestFilterApplications(t *testing.T) {
	tests := []struct {
		name   string
		term   string
		status string
		want   []string //expected ids, in order
	}{
		{
			name:   "both filters inactive returns everything",
			term:   "",
			status: StatusFilterAll,
			want:   []string{"1", "2", "3", "4"},
		},
		{
			name:   "search matches company case-insensitively",
			term:   "ACME",
			status: StatusFilterAll,
			want:   []string{"1"},
		},
		{
			name:   "search matches position",
			term:   "engineer",
			status: StatusFilterAll,
			want:   []string{"1", "4"},
		},
		{
			name:   "search matches location, nil location never matches",
			term:   "berlin",
			status: StatusFilterAll,
			want:   []string{"1", "4"},
		},
		{
			name:   "nil location record still matches via company",
			term:   "globex",
			status: StatusFilterAll,
			want:   []string{"2"},
		},
		{
			name:   "diacritics are folded",
			term:   "ha noi",
			status: StatusFilterAll,
			want:   []string{"3"},
		},
		{
			name:   "status filter alone",
			term:   "",
			status: "applied",
			want:   []string{"1", "3"},
		},
		{
			name:   "search and status combine",
			term:   "engineer",
			status: "rejected",
			want:   []string{"4"},
		},
		{
			name:   "no matches",
			term:   "acme",
			status: "interview",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterApplications(sampleRecords(), tt.term, tt.status)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: got id %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterIdentityWhenInactive(t *testing.T) {
	records := sampleRecords()
	got := FilterApplications(records, "", StatusFilterAll)
	if len(got) != len(records) {
		t.Fatalf("identity filter changed length: got %d, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i].ID != records[i].ID {
			t.Errorf("identity filter reordered records at %d", i)
		}
	}
}

func TestFilterCaseVariantsAgree(t *testing.T) {
	upper := FilterApplications(sampleRecords(), "ACME", StatusFilterAll)
	lower := FilterApplications(sampleRecords(), "acme", StatusFilterAll)
	if len(upper) != len(lower) {
		t.Fatalf("case variants disagree: %d vs %d", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i].ID != lower[i].ID {
			t.Errorf("case variants disagree at %d", i)
		}
	}
}
