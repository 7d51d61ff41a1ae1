package schedule

import (
	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/models"
)

// MaxScore is the highest score a side may record
const MaxScore = 99

// Validate checks the structure of a schedule received from outside: positive
// unique round numbers, positive unique courts per round, team sizes matching
// the game type, and no participant listed twice within a round.
func Validate(s models.Schedule, gt models.GameType) error {
	size := gt.TeamSize()
	rounds := make(map[int]bool, len(s))
	for _, r := range s {
		if r.Round <= 0 {
			return errors.Validationf("round number must be positive, got %d", r.Round)
		}
		if rounds[r.Round] {
			return errors.Validationf("round %d appears more than once", r.Round)
		}
		rounds[r.Round] = true

		courts := make(map[int]bool, len(r.Matches))
		for _, m := range r.Matches {
			if m.Court <= 0 {
				return errors.Validationf("round %d: court must be positive, got %d", r.Round, m.Court)
			}
			if courts[m.Court] {
				return errors.Validationf("round %d: court %d appears more than once", r.Round, m.Court)
			}
			courts[m.Court] = true
			if len(m.Team1) != size || len(m.Team2) != size {
				return errors.Validationf("round %d court %d: %s teams need %d players", r.Round, m.Court, gt, size)
			}
			if err := checkScore(m.Score1); err != nil {
				return err
			}
			if err := checkScore(m.Score2); err != nil {
				return err
			}
		}

		seen := make(map[models.ParticipantID]bool)
		for _, id := range r.Participants() {
			if seen[id] {
				return errors.Validationf("round %d: participant %d appears more than once", r.Round, id)
			}
			seen[id] = true
		}
	}
	return nil
}

// CheckRoster rejects schedules that mention ids outside the allowed set
func CheckRoster(s models.Schedule, allowed []models.ParticipantID) error {
	ok := make(map[models.ParticipantID]bool, len(allowed))
	for _, id := range allowed {
		ok[id] = true
	}
	for _, id := range s.ParticipantIDs() {
		if !ok[id] {
			return &errors.Error{
				Kind:    errors.ErrValidation,
				Code:    errors.CodeInvalidParticipant,
				Message: "participant is not on this event's roster",
				Err:     errors.Validationf("participant %d", id),
			}
		}
	}
	return nil
}

// CheckScoreValue validates a single side's score
func CheckScoreValue(v *int) error {
	return checkScore(v)
}

func checkScore(v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > MaxScore {
		return errors.Validationf("score must be between 0 and %d, got %d", MaxScore, *v)
	}
	return nil
}

// HasMatch reports whether the schedule has a match at (round, court)
func HasMatch(s models.Schedule, round, court int) bool {
	r := s.Round(round)
	return r != nil && r.Match(court) != nil
}

// MergeScores returns a copy of s with each match's scores taken from records.
// Scores embedded in s are discarded; records for unknown matches are ignored.
func MergeScores(s models.Schedule, records []models.ScoreRecord) models.Schedule {
	out := s.ClearScores()
	for _, rec := range records {
		r := out.Round(rec.Round)
		if r == nil {
			continue
		}
		if m := r.Match(rec.Court); m != nil {
			m.Score1 = rec.Score1
			m.Score2 = rec.Score2
		}
	}
	return out
}

// StateOf derives the lifecycle state. A published schedule with no rounds,
// as left by a reset, counts as no schedule.
func StateOf(hasDraft bool, pub *models.PublishedSchedule) models.ScheduleState {
	if pub != nil && len(pub.Schedule) > 0 {
		if pub.Locked {
			return models.StateLocked
		}
		return models.StatePublished
	}
	if hasDraft {
		return models.StateDraft
	}
	return models.StateNoSchedule
}
