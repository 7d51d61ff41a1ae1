package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// seed creates an event with n attending participants
func seed(t *testing.T, repo *Repository, n int) (int, []models.ParticipantID) {
	t.Helper()
	ctx := context.Background()
	eventID, err := repo.CreateEvent(ctx, "Thursday doubles", "2026-10-17", "token-"+t.Name())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	var ids []models.ParticipantID
	for i := 0; i < n; i++ {
		id, err := repo.AddParticipant(ctx, int(eventID), string(rune('A'+i)), models.AttendanceYes)
		if err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		ids = append(ids, models.ParticipantID(id))
	}
	return int(eventID), ids
}

func intPtr(v int) *int { return &v }

func singlesSchedule(ids []models.ParticipantID) models.Schedule {
	return models.Schedule{
		{
			Round: 1,
			Matches: []models.Match{
				{Court: 1, Team1: []models.ParticipantID{ids[0]}, Team2: []models.ParticipantID{ids[1]}},
			},
			Rests: []models.ParticipantID{ids[2]},
		},
	}
}

// ==================== Event Tests ====================

func TestEvents_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateEvent(ctx, "Club night", "2026-10-17", "abc")
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	ev, err := repo.GetEvent(ctx, int(id))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if ev.Name != "Club night" || ev.EventDate != "2026-10-17" || ev.PublicToken != "abc" {
		t.Errorf("unexpected event: %+v", ev)
	}

	byToken, err := repo.GetEventByToken(ctx, "abc")
	if err != nil {
		t.Fatalf("GetEventByToken failed: %v", err)
	}
	if byToken.ID != ev.ID {
		t.Errorf("expected id %d, got %d", ev.ID, byToken.ID)
	}

	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestEvents_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetEvent(ctx, 42); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetEventByToken(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEvents_DuplicateTokenRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateEvent(ctx, "one", "", "same"); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := repo.CreateEvent(ctx, "two", "", "same"); err == nil {
		t.Error("expected unique constraint error")
	}
}

// ==================== Participant Tests ====================

func TestParticipants_AddListGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)

	list, err := repo.ListParticipants(ctx, eventID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(list))
	}
	for i, p := range list {
		if p.ID != ids[i] {
			t.Errorf("participant %d: expected id %d, got %d", i, ids[i], p.ID)
		}
		if p.Attendance != models.AttendanceYes {
			t.Errorf("participant %d: expected attendance yes, got %q", i, p.Attendance)
		}
		if p.ParticipatesMatch {
			t.Errorf("participant %d: should not be marked as playing", i)
		}
	}

	p, err := repo.GetParticipant(ctx, eventID, ids[1])
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if p.DisplayName != "B" {
		t.Errorf("expected B, got %q", p.DisplayName)
	}

	if _, err := repo.GetParticipant(ctx, eventID+1, ids[1]); err != ErrNotFound {
		t.Errorf("participant of another event: expected ErrNotFound, got %v", err)
	}
}

func TestParticipants_InsertIgnore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, _ := seed(t, repo, 1)

	created, err := repo.InsertParticipantIgnore(ctx, eventID, "A")
	if err != nil {
		t.Fatalf("InsertParticipantIgnore failed: %v", err)
	}
	if created {
		t.Error("existing name should not be created again")
	}

	created, err = repo.InsertParticipantIgnore(ctx, eventID, "Zed")
	if err != nil {
		t.Fatalf("InsertParticipantIgnore failed: %v", err)
	}
	if !created {
		t.Error("new name should be created")
	}

	list, _ := repo.ListParticipants(ctx, eventID)
	if len(list) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(list))
	}
	if list[1].Attendance != models.AttendanceMaybe {
		t.Errorf("imported participant should default to maybe, got %q", list[1].Attendance)
	}
}

func TestParticipants_SetAttendance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 1)

	if err := repo.SetAttendance(ctx, eventID, ids[0], models.AttendanceNo); err != nil {
		t.Fatalf("SetAttendance failed: %v", err)
	}
	p, _ := repo.GetParticipant(ctx, eventID, ids[0])
	if p.Attendance != models.AttendanceNo {
		t.Errorf("expected no, got %q", p.Attendance)
	}

	if err := repo.SetAttendance(ctx, eventID, 999, models.AttendanceYes); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Draft Tests ====================

func TestDraft_SaveGetDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)

	if _, err := repo.GetDraft(ctx, eventID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	seedVal := int64(7)
	draft := models.Draft{
		EventID:  eventID,
		Schedule: singlesSchedule(ids),
		Params: models.GenerationParams{
			GameType:       models.GameTypeSingles,
			Rounds:         1,
			Courts:         1,
			ParticipantIDs: ids,
			Seed:           &seedVal,
		},
	}
	if err := repo.SaveDraft(ctx, draft); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	got, err := repo.GetDraft(ctx, eventID)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if len(got.Schedule) != 1 || got.Schedule[0].Matches[0].Team1[0] != ids[0] {
		t.Errorf("unexpected draft schedule: %+v", got.Schedule)
	}
	if got.Params.GameType != models.GameTypeSingles || len(got.Params.ParticipantIDs) != 3 {
		t.Errorf("unexpected params: %+v", got.Params)
	}
	if got.Params.Seed == nil || *got.Params.Seed != 7 {
		t.Errorf("seed not round-tripped: %v", got.Params.Seed)
	}

	// Saving again replaces the draft
	draft.Schedule = models.Schedule{}
	if err := repo.SaveDraft(ctx, draft); err != nil {
		t.Fatalf("SaveDraft (replace) failed: %v", err)
	}
	got, _ = repo.GetDraft(ctx, eventID)
	if len(got.Schedule) != 0 {
		t.Errorf("expected replaced empty draft, got %d rounds", len(got.Schedule))
	}

	if err := repo.DeleteDraft(ctx, eventID); err != nil {
		t.Fatalf("DeleteDraft failed: %v", err)
	}
	if _, err := repo.GetDraft(ctx, eventID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// ==================== Publish Tests ====================

func TestPublishSchedule_MarksParticipantsAndDeletesDraft(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 4)

	params := models.GenerationParams{GameType: models.GameTypeSingles, Rounds: 1, Courts: 1, ParticipantIDs: ids[:3]}
	if err := repo.SaveDraft(ctx, models.Draft{EventID: eventID, Schedule: singlesSchedule(ids), Params: params}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	pub, err := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), params)
	if err != nil {
		t.Fatalf("PublishSchedule failed: %v", err)
	}
	if pub.Locked || pub.Version != 1 {
		t.Errorf("expected unlocked version 1, got locked=%v version=%d", pub.Locked, pub.Version)
	}

	if _, err := repo.GetDraft(ctx, eventID); err != ErrNotFound {
		t.Errorf("draft should be deleted on publish, got %v", err)
	}

	list, _ := repo.ListParticipants(ctx, eventID)
	for i, p := range list {
		want := i < 3
		if p.ParticipatesMatch != want {
			t.Errorf("participant %d: participates_match=%v, want %v", p.ID, p.ParticipatesMatch, want)
		}
	}

	// Republishing with a smaller roster unmarks the others and bumps the version
	params.ParticipantIDs = ids[:1]
	pub2, err := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), params)
	if err != nil {
		t.Fatalf("PublishSchedule (again) failed: %v", err)
	}
	if pub2.ID != pub.ID {
		t.Errorf("republish should keep schedule id %d, got %d", pub.ID, pub2.ID)
	}
	if pub2.Version != 2 {
		t.Errorf("expected version 2, got %d", pub2.Version)
	}
	list, _ = repo.ListParticipants(ctx, eventID)
	for i, p := range list {
		if p.ParticipatesMatch != (i == 0) {
			t.Errorf("participant %d: participates_match=%v after republish", p.ID, p.ParticipatesMatch)
		}
	}
}

func TestPublishSchedule_ClearsScoresAndUnlocks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)
	params := models.GenerationParams{GameType: models.GameTypeSingles, Rounds: 1, Courts: 1, ParticipantIDs: ids}

	pub, err := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), params)
	if err != nil {
		t.Fatalf("PublishSchedule failed: %v", err)
	}
	if _, err := repo.SetScore(ctx, pub.ID, ScoreKey{Round: 1, Court: 1}, "a", intPtr(6)); err != nil {
		t.Fatalf("SetScore failed: %v", err)
	}

	pub, err = repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), params)
	if err != nil {
		t.Fatalf("PublishSchedule failed: %v", err)
	}
	if pub.Locked || pub.LockedAt != nil {
		t.Error("republish should unlock")
	}
	has, err := repo.HasAnyScore(ctx, pub.ID)
	if err != nil {
		t.Fatalf("HasAnyScore failed: %v", err)
	}
	if has {
		t.Error("republish should delete scores")
	}
}

// ==================== Score Tests ====================

func TestSetScore_LocksOnFirstValue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)
	pub, err := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), models.GenerationParams{ParticipantIDs: ids})
	if err != nil {
		t.Fatalf("PublishSchedule failed: %v", err)
	}
	key := ScoreKey{Round: 1, Court: 1}

	// A null write creates the record but does not lock
	locked, err := repo.SetScore(ctx, pub.ID, key, "b", nil)
	if err != nil {
		t.Fatalf("SetScore(nil) failed: %v", err)
	}
	if locked {
		t.Error("null score should not lock")
	}

	locked, err = repo.SetScore(ctx, pub.ID, key, "a", intPtr(6))
	if err != nil {
		t.Fatalf("SetScore failed: %v", err)
	}
	if !locked {
		t.Error("first non-null score should lock")
	}

	locked, err = repo.SetScore(ctx, pub.ID, key, "b", intPtr(4))
	if err != nil {
		t.Fatalf("SetScore failed: %v", err)
	}
	if !locked {
		t.Error("schedule should stay locked")
	}

	// Clearing a score never unlocks
	locked, err = repo.SetScore(ctx, pub.ID, key, "a", nil)
	if err != nil {
		t.Fatalf("SetScore(nil) failed: %v", err)
	}
	if !locked {
		t.Error("clearing a score must not unlock")
	}

	records, err := repo.GetScores(ctx, pub.ID)
	if err != nil {
		t.Fatalf("GetScores failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record per (round, court), got %d", len(records))
	}
	if records[0].Score1 != nil || records[0].Score2 == nil || *records[0].Score2 != 4 {
		t.Errorf("unexpected record: score1=%v score2=%v", records[0].Score1, records[0].Score2)
	}

	got, _ := repo.GetPublishedSchedule(ctx, eventID)
	if !got.Locked || got.LockedAt == nil {
		t.Errorf("published schedule should be locked with a timestamp: %+v", got)
	}
}

func TestSetScore_InvalidSide(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SetScore(context.Background(), 1, ScoreKey{Round: 1, Court: 1}, "c", intPtr(1)); err != ErrInvalidSide {
		t.Errorf("expected ErrInvalidSide, got %v", err)
	}
}

// ==================== Replace Tests ====================

func TestReplacePublishedSchedule_VersionCheck(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)
	pub, _ := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), models.GenerationParams{ParticipantIDs: ids})
	_, _ = repo.SetScore(ctx, pub.ID, ScoreKey{Round: 1, Court: 1}, "a", intPtr(6))

	swapped := singlesSchedule(ids)
	swapped[0].Matches[0].Team1[0], swapped[0].Rests[0] = ids[2], ids[0]

	version, err := repo.ReplacePublishedSchedule(ctx, pub.ID, pub.Version, swapped, &ScoreKey{Round: 1, Court: 1})
	if err != nil {
		t.Fatalf("ReplacePublishedSchedule failed: %v", err)
	}
	if version != pub.Version+1 {
		t.Errorf("expected version %d, got %d", pub.Version+1, version)
	}

	got, _ := repo.GetPublishedSchedule(ctx, eventID)
	if got.Schedule[0].Matches[0].Team1[0] != ids[2] {
		t.Errorf("schedule not replaced: %+v", got.Schedule)
	}
	if !got.Locked {
		t.Error("replace must not change the lock flag")
	}
	records, _ := repo.GetScores(ctx, pub.ID)
	if len(records) != 0 {
		t.Errorf("cleared match score should be deleted, got %d records", len(records))
	}

	// Stale version
	if _, err := repo.ReplacePublishedSchedule(ctx, pub.ID, pub.Version, swapped, nil); err != ErrVersionConflict {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
	// Unknown schedule
	if _, err := repo.ReplacePublishedSchedule(ctx, pub.ID+100, 1, swapped, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Reset Tests ====================

func TestResetSchedule(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, ids := seed(t, repo, 3)
	params := models.GenerationParams{ParticipantIDs: ids}
	pub, _ := repo.PublishSchedule(ctx, eventID, singlesSchedule(ids), params)
	_, _ = repo.SetScore(ctx, pub.ID, ScoreKey{Round: 1, Court: 1}, "a", intPtr(6))

	if err := repo.ResetSchedule(ctx, eventID); err != nil {
		t.Fatalf("ResetSchedule failed: %v", err)
	}

	got, err := repo.GetPublishedSchedule(ctx, eventID)
	if err != nil {
		t.Fatalf("GetPublishedSchedule failed: %v", err)
	}
	if got.Locked || got.LockedAt != nil {
		t.Error("reset should unlock")
	}
	if got.Schedule == nil || len(got.Schedule) != 0 {
		t.Errorf("reset should leave an empty, non-nil schedule, got %#v", got.Schedule)
	}
	raw, _ := json.Marshal(got.Schedule)
	if string(raw) != "[]" {
		t.Errorf("expected [] JSON, got %s", raw)
	}

	has, _ := repo.HasAnyScore(ctx, pub.ID)
	if has {
		t.Error("reset should delete scores")
	}

	draft, err := repo.GetDraft(ctx, eventID)
	if err != nil {
		t.Fatalf("reset should leave an empty draft: %v", err)
	}
	if len(draft.Schedule) != 0 {
		t.Errorf("expected empty draft, got %d rounds", len(draft.Schedule))
	}

	list, _ := repo.ListParticipants(ctx, eventID)
	for _, p := range list {
		if p.ParticipatesMatch {
			t.Errorf("participant %d still marked as playing", p.ID)
		}
	}
}

func TestResetSchedule_NothingPublished(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	eventID, _ := seed(t, repo, 2)

	if err := repo.ResetSchedule(ctx, eventID); err != nil {
		t.Fatalf("ResetSchedule failed: %v", err)
	}
	if _, err := repo.GetPublishedSchedule(ctx, eventID); err != ErrNotFound {
		t.Errorf("reset should not create a published schedule, got %v", err)
	}
}

// ==================== Settings Tests ====================

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	v, err := repo.GetSetting(ctx, "base_url")
	if err != nil || v != "" {
		t.Fatalf("expected empty missing setting, got %q, %v", v, err)
	}
	if err := repo.SetSetting(ctx, "base_url", "http://10.0.0.2:8080"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := repo.SetSetting(ctx, "base_url", "http://10.0.0.3:8080"); err != nil {
		t.Fatalf("SetSetting (replace) failed: %v", err)
	}
	v, _ = repo.GetSetting(ctx, "base_url")
	if v != "http://10.0.0.3:8080" {
		t.Errorf("unexpected value %q", v)
	}
}

func TestClose(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
