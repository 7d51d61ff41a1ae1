// Package schedule holds pure transformations over models.Schedule values.
// Functions never mutate their input; callers persist the returned copy.
package schedule

import (
	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/models"
)

// Slot addresses one player position inside a match
type Slot struct {
	Round int `json:"round"`
	Court int `json:"court"`
	Team  int `json:"team"`       // 1 or 2
	Index int `json:"slot_index"` // 0-based position within the team
}

// Substitute places newID into slot. If newID already plays elsewhere in the
// round the two players swap; if newID was resting, the displaced player takes
// their rest entry; otherwise the displaced player joins the rests.
//
// When newID already occupies the slot the input schedule is returned as is
// and changed is false.
func Substitute(s models.Schedule, slot Slot, newID models.ParticipantID) (out models.Schedule, changed bool, err error) {
	if slot.Team != 1 && slot.Team != 2 {
		return nil, false, errors.Validationf("team must be 1 or 2, got %d", slot.Team)
	}
	if slot.Index < 0 {
		return nil, false, errors.Validationf("slot index must be non-negative, got %d", slot.Index)
	}

	out = s.Clone()
	round := out.Round(slot.Round)
	if round == nil {
		return nil, false, errors.NotFoundf("round %d not found", slot.Round)
	}
	match := round.Match(slot.Court)
	if match == nil {
		return nil, false, errors.NotFoundf("court %d not found in round %d", slot.Court, slot.Round)
	}
	team := teamOf(match, slot.Team)
	if slot.Index >= len(team) {
		return nil, false, errors.NotFoundf("slot %d not found in team %d", slot.Index, slot.Team)
	}

	oldID := team[slot.Index]
	if oldID == newID {
		return s, false, nil
	}

	switch {
	case swapInMatches(round, slot, oldID, newID):
	case replaceInRests(round, oldID, newID):
	default:
		if !contains(round.Rests, oldID) {
			round.Rests = append(round.Rests, oldID)
		}
	}
	team[slot.Index] = newID
	round.Rests = removeAll(round.Rests, newID)

	return out, true, nil
}

// swapInMatches moves oldID into whichever other slot of the round holds newID
func swapInMatches(round *models.Round, target Slot, oldID, newID models.ParticipantID) bool {
	for mi := range round.Matches {
		m := &round.Matches[mi]
		for t := 1; t <= 2; t++ {
			team := teamOf(m, t)
			for i, id := range team {
				if id != newID {
					continue
				}
				if m.Court == target.Court && t == target.Team && i == target.Index {
					continue
				}
				team[i] = oldID
				return true
			}
		}
	}
	return false
}

// replaceInRests swaps the first rest entry of newID for oldID
func replaceInRests(round *models.Round, oldID, newID models.ParticipantID) bool {
	for i, id := range round.Rests {
		if id == newID {
			round.Rests[i] = oldID
			return true
		}
	}
	return false
}

func teamOf(m *models.Match, team int) []models.ParticipantID {
	if team == 1 {
		return m.Team1
	}
	return m.Team2
}

func contains(ids []models.ParticipantID, id models.ParticipantID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeAll(ids []models.ParticipantID, id models.ParticipantID) []models.ParticipantID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if out == nil {
		return []models.ParticipantID{}
	}
	return out
}
