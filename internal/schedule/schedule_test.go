package schedule_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/schedule"
)

type ids = []models.ParticipantID

func intp(v int) *int { return &v }

// doublesFixture: round 1 has courts 1 and 2 with 8 players and 2 resting
func doublesFixture() models.Schedule {
	return models.Schedule{
		{
			Round: 1,
			Matches: []models.Match{
				{Court: 1, Team1: ids{1, 2}, Team2: ids{3, 4}, Score1: intp(6), Score2: intp(4)},
				{Court: 2, Team1: ids{5, 6}, Team2: ids{7, 8}, Score1: intp(2), Score2: intp(6)},
			},
			Rests: ids{9, 10},
		},
		{
			Round: 2,
			Matches: []models.Match{
				{Court: 1, Team1: ids{9, 1}, Team2: ids{10, 3}},
				{Court: 2, Team1: ids{2, 5}, Team2: ids{4, 7}},
			},
			Rests: ids{6, 8},
		},
	}
}

func roundMembers(r models.Round) map[models.ParticipantID]int {
	out := map[models.ParticipantID]int{}
	for _, id := range r.Participants() {
		out[id]++
	}
	return out
}

// =============================================================================
// Substitute
// =============================================================================

func TestSubstitute_SwapWithOtherMatch(t *testing.T) {
	in := doublesFixture()

	out, changed, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 1, Index: 0}, 7)
	require.NoError(t, err)
	assert.True(t, changed)

	r := out.Round(1)
	assert.Equal(t, ids{7, 2}, r.Match(1).Team1)
	assert.Equal(t, ids{5, 6}, r.Match(2).Team1)
	assert.Equal(t, ids{1, 8}, r.Match(2).Team2, "displaced player takes the new player's old slot")
	assert.Equal(t, ids{9, 10}, r.Rests)

	for id, n := range roundMembers(*r) {
		assert.Equalf(t, 1, n, "participant %d duplicated", id)
	}
}

func TestSubstitute_SwapWithinSameMatch(t *testing.T) {
	out, changed, err := schedule.Substitute(doublesFixture(), schedule.Slot{Round: 1, Court: 1, Team: 2, Index: 1}, 1)
	require.NoError(t, err)
	assert.True(t, changed)

	m := out.Round(1).Match(1)
	assert.Equal(t, ids{4, 2}, m.Team1)
	assert.Equal(t, ids{3, 1}, m.Team2)
}

func TestSubstitute_FromRests(t *testing.T) {
	out, changed, err := schedule.Substitute(doublesFixture(), schedule.Slot{Round: 1, Court: 2, Team: 2, Index: 1}, 10)
	require.NoError(t, err)
	assert.True(t, changed)

	r := out.Round(1)
	assert.Equal(t, ids{7, 10}, r.Match(2).Team2)
	assert.Equal(t, ids{9, 8}, r.Rests, "displaced player takes the rest entry")
}

func TestSubstitute_NotInRound(t *testing.T) {
	out, changed, err := schedule.Substitute(doublesFixture(), schedule.Slot{Round: 2, Court: 1, Team: 1, Index: 0}, 42)
	require.NoError(t, err)
	assert.True(t, changed)

	r := out.Round(2)
	assert.Equal(t, ids{42, 1}, r.Match(1).Team1)
	assert.Equal(t, ids{6, 8, 9}, r.Rests)
}

func TestSubstitute_NotInRoundOldAlreadyResting(t *testing.T) {
	in := doublesFixture()
	in[1].Rests = ids{6, 8, 9} // corrupt input: 9 both plays and rests

	out, _, err := schedule.Substitute(in, schedule.Slot{Round: 2, Court: 1, Team: 1, Index: 0}, 42)
	require.NoError(t, err)
	assert.Equal(t, ids{6, 8, 9}, out.Round(2).Rests, "displaced player is not added twice")
}

func TestSubstitute_RemovesDuplicateRestEntries(t *testing.T) {
	in := doublesFixture()
	in[0].Rests = ids{9, 7, 10, 7}

	out, _, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 1, Index: 0}, 7)
	require.NoError(t, err)
	assert.NotContains(t, out.Round(1).Rests, models.ParticipantID(7))
}

func TestSubstitute_SameParticipantIsNoop(t *testing.T) {
	in := doublesFixture()

	out, changed, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 1, Index: 1}, 2)
	require.NoError(t, err)
	assert.False(t, changed)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("no-op substitution changed the schedule (-in +out):\n%s", diff)
	}
}

func TestSubstitute_DoesNotMutateInput(t *testing.T) {
	in := doublesFixture()
	before := in.Clone()

	_, _, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 1, Index: 0}, 9)
	require.NoError(t, err)

	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSubstitute_OtherRoundsUntouched(t *testing.T) {
	in := doublesFixture()

	out, _, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 1, Index: 0}, 9)
	require.NoError(t, err)
	assert.Equal(t, in[1], out[1])
}

func TestSubstitute_Singles(t *testing.T) {
	in := models.Schedule{{
		Round:   1,
		Matches: []models.Match{{Court: 1, Team1: ids{1}, Team2: ids{2}}, {Court: 2, Team1: ids{3}, Team2: ids{4}}},
		Rests:   ids{5},
	}}

	// X=4 already plays on court 2: swap, not duplicate
	out, _, err := schedule.Substitute(in, schedule.Slot{Round: 1, Court: 1, Team: 2, Index: 0}, 4)
	require.NoError(t, err)

	r := out.Round(1)
	assert.Equal(t, ids{4}, r.Match(1).Team2)
	assert.Equal(t, ids{2}, r.Match(2).Team2)
	assert.Equal(t, ids{5}, r.Rests)
}

func TestSubstitute_Errors(t *testing.T) {
	tests := []struct {
		name string
		slot schedule.Slot
		kind errors.Kind
	}{
		{"bad team", schedule.Slot{Round: 1, Court: 1, Team: 3, Index: 0}, errors.ErrValidation},
		{"negative index", schedule.Slot{Round: 1, Court: 1, Team: 1, Index: -1}, errors.ErrValidation},
		{"unknown round", schedule.Slot{Round: 5, Court: 1, Team: 1, Index: 0}, errors.ErrNotFound},
		{"unknown court", schedule.Slot{Round: 1, Court: 3, Team: 1, Index: 0}, errors.ErrNotFound},
		{"slot out of range", schedule.Slot{Round: 1, Court: 1, Team: 2, Index: 2}, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := schedule.Substitute(doublesFixture(), tt.slot, 9)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}
}

// =============================================================================
// Validate / CheckRoster
// =============================================================================

func TestValidate(t *testing.T) {
	require.NoError(t, schedule.Validate(doublesFixture(), models.GameTypeDoubles))
	require.NoError(t, schedule.Validate(models.Schedule{}, models.GameTypeSingles))

	bad := map[string]models.Schedule{
		"zero round":       {{Round: 0}},
		"duplicate round":  {{Round: 1}, {Round: 1}},
		"zero court":       {{Round: 1, Matches: []models.Match{{Court: 0, Team1: ids{1, 2}, Team2: ids{3, 4}}}}},
		"duplicate court":  {{Round: 1, Matches: []models.Match{{Court: 1, Team1: ids{1, 2}, Team2: ids{3, 4}}, {Court: 1, Team1: ids{5, 6}, Team2: ids{7, 8}}}}},
		"singles sized":    {{Round: 1, Matches: []models.Match{{Court: 1, Team1: ids{1}, Team2: ids{2}}}}},
		"player twice":     {{Round: 1, Matches: []models.Match{{Court: 1, Team1: ids{1, 2}, Team2: ids{3, 4}}}, Rests: ids{1}}},
		"score too high":   {{Round: 1, Matches: []models.Match{{Court: 1, Team1: ids{1, 2}, Team2: ids{3, 4}, Score1: intp(100)}}}},
		"negative score":   {{Round: 1, Matches: []models.Match{{Court: 1, Team1: ids{1, 2}, Team2: ids{3, 4}, Score2: intp(-1)}}}},
	}
	for name, s := range bad {
		t.Run(name, func(t *testing.T) {
			err := schedule.Validate(s, models.GameTypeDoubles)
			require.Error(t, err)
			assert.Equal(t, errors.ErrValidation, errors.KindOf(err))
		})
	}
}

func TestCheckRoster(t *testing.T) {
	s := doublesFixture()
	require.NoError(t, schedule.CheckRoster(s, ids{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))

	err := schedule.CheckRoster(s, ids{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParticipant, errors.CodeOf(err))
}

func TestCheckScoreValue(t *testing.T) {
	assert.NoError(t, schedule.CheckScoreValue(nil))
	assert.NoError(t, schedule.CheckScoreValue(intp(0)))
	assert.NoError(t, schedule.CheckScoreValue(intp(99)))
	assert.Error(t, schedule.CheckScoreValue(intp(100)))
	assert.Error(t, schedule.CheckScoreValue(intp(-1)))
}

// =============================================================================
// MergeScores / HasMatch / StateOf
// =============================================================================

func TestMergeScores(t *testing.T) {
	in := doublesFixture()
	records := []models.ScoreRecord{
		{Round: 2, Court: 1, Score1: intp(6), Score2: nil},
		{Round: 9, Court: 1, Score1: intp(1)},
	}

	out := schedule.MergeScores(in, records)

	assert.Nil(t, out.Round(1).Match(1).Score1, "embedded scores are replaced by records")
	assert.Equal(t, intp(6), out.Round(2).Match(1).Score1)
	assert.Nil(t, out.Round(2).Match(1).Score2)
	assert.Equal(t, intp(6), in.Round(1).Match(1).Score1, "input untouched")
}

func TestHasMatch(t *testing.T) {
	s := doublesFixture()
	assert.True(t, schedule.HasMatch(s, 1, 2))
	assert.False(t, schedule.HasMatch(s, 1, 3))
	assert.False(t, schedule.HasMatch(s, 3, 1))
}

func TestStateOf(t *testing.T) {
	pub := &models.PublishedSchedule{Schedule: doublesFixture()}
	locked := &models.PublishedSchedule{Schedule: doublesFixture(), Locked: true}
	empty := &models.PublishedSchedule{Schedule: models.Schedule{}}

	assert.Equal(t, models.StateNoSchedule, schedule.StateOf(false, nil))
	assert.Equal(t, models.StateNoSchedule, schedule.StateOf(false, empty))
	assert.Equal(t, models.StateDraft, schedule.StateOf(true, nil))
	assert.Equal(t, models.StateDraft, schedule.StateOf(true, empty))
	assert.Equal(t, models.StatePublished, schedule.StateOf(false, pub))
	assert.Equal(t, models.StatePublished, schedule.StateOf(true, pub))
	assert.Equal(t, models.StateLocked, schedule.StateOf(false, locked))
}
