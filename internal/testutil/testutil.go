package testutil

import (
	"context"
	"testing"

	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() { repo.Close() })

	return repo
}

// SeedEvent creates an event with the given participant names, all attending,
// and returns the event id and the participant ids in name order.
func SeedEvent(t *testing.T, repo repository.FullRepository, names ...string) (int, []models.ParticipantID) {
	t.Helper()
	ctx := context.Background()

	eventID, err := repo.CreateEvent(ctx, "Club night", "2026-10-17", "tok-"+t.Name())
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	ids := make([]models.ParticipantID, 0, len(names))
	for _, name := range names {
		id, err := repo.AddParticipant(ctx, int(eventID), name, models.AttendanceYes)
		if err != nil {
			t.Fatalf("failed to add participant %q: %v", name, err)
		}
		ids = append(ids, models.ParticipantID(id))
	}
	return int(eventID), ids
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
