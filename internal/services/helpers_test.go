package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/services"
	"github.com/tosh-m12/courtmatch/internal/testutil"
)

type broadcast struct {
	eventID int
	msgType string
	payload interface{}
}

// recordingBroadcaster captures every broadcast for assertions
type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []broadcast
}

func (b *recordingBroadcaster) BroadcastEvent(eventID int, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, broadcast{eventID, msgType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.msgType
	}
	return out
}

type testEnv struct {
	repo      repository.FullRepository
	keyed     *locks.Keyed
	schedules *services.ScheduleService
	scores    *services.ScoreService
	subs      *services.SubstitutionService
	bc        *recordingBroadcaster
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnvWithRepo(t, testutil.NewTestRepository(t))
}

func newEnvWithRepo(t *testing.T, repo repository.FullRepository) *testEnv {
	t.Helper()
	log := logger.Nop()
	keyed := locks.NewKeyed(50 * time.Millisecond)
	seed := int64(42)
	env := &testEnv{
		repo:      repo,
		keyed:     keyed,
		schedules: services.NewScheduleService(log, repo, keyed, metrics.Nop{}, services.Limits{MaxRounds: 30, MaxCourts: 16, Seed: &seed}),
		scores:    services.NewScoreService(log, repo, keyed, metrics.Nop{}),
		subs:      services.NewSubstitutionService(log, repo, keyed, metrics.Nop{}),
		bc:        &recordingBroadcaster{},
	}
	env.schedules.SetBroadcaster(env.bc)
	env.scores.SetBroadcaster(env.bc)
	env.subs.SetBroadcaster(env.bc)
	return env
}

// singlesPayload is a fixed two-round schedule over four players:
// round 1 plays a-b and c-d; round 2 plays a-c while b and d rest.
func singlesPayload(ids []models.ParticipantID) models.Schedule {
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]
	return models.Schedule{
		{Round: 1, Matches: []models.Match{
			{Court: 1, Team1: []models.ParticipantID{a}, Team2: []models.ParticipantID{b}},
			{Court: 2, Team1: []models.ParticipantID{c}, Team2: []models.ParticipantID{d}},
		}},
		{Round: 2, Matches: []models.Match{
			{Court: 1, Team1: []models.ParticipantID{a}, Team2: []models.ParticipantID{c}},
		}, Rests: []models.ParticipantID{b, d}},
	}
}

// publishFixture seeds four attending players and publishes singlesPayload
func publishFixture(t *testing.T, env *testEnv) (int, []models.ParticipantID, *services.PublishResult) {
	t.Helper()
	eventID, ids := testutil.SeedEvent(t, env.repo, "Ana", "Ben", "Cai", "Dee")
	payload := singlesPayload(ids)
	res, err := env.schedules.Publish(context.Background(), eventID, services.PublishRequest{
		Schedule: &payload,
		GameType: models.GameTypeSingles,
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	return eventID, ids, res
}

func setScore(t *testing.T, env *testEnv, eventID, round, court int, side string, v int) *services.ScoreResult {
	t.Helper()
	res, err := env.scores.SetScore(context.Background(), eventID, services.ScoreRequest{
		Round: round, Court: court, Side: side, Value: testutil.IntPtr(v),
	})
	if err != nil {
		t.Fatalf("SetScore(%d,%d,%s) failed: %v", round, court, side, err)
	}
	return res
}

func containsID(ids []models.ParticipantID, id models.ParticipantID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
