package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/tosh-m12/courtmatch/internal/errors"
)

// ParticipantID is the integer ep_id of an event participant.
// It only decodes from a JSON integer literal: strings, booleans, floats
// and null are rejected.
type ParticipantID int

// UnmarshalJSON implements json.Unmarshaler with strict integer decoding
func (p *ParticipantID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !(data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		return &errors.Error{
			Kind:    errors.ErrValidation,
			Code:    errors.CodeInvalidParticipant,
			Message: "participant id must be an integer, got " + string(data),
		}
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return &errors.Error{
			Kind:    errors.ErrValidation,
			Code:    errors.CodeInvalidParticipant,
			Message: "participant id must be an integer, got " + string(data),
		}
	}
	*p = ParticipantID(n)
	return nil
}

// Match is one court's pairing within a round
type Match struct {
	Court  int             `json:"court"`
	Team1  []ParticipantID `json:"team1"`
	Team2  []ParticipantID `json:"team2"`
	Score1 *int            `json:"score1"`
	Score2 *int            `json:"score2"`
}

// Round is one time slot: its matches plus everyone resting
type Round struct {
	Round   int             `json:"round"`
	Matches []Match         `json:"matches"`
	Rests   []ParticipantID `json:"rests"`
}

// MarshalJSON emits empty lists rather than null for matches and rests
func (r Round) MarshalJSON() ([]byte, error) {
	type alias Round
	a := alias(r)
	a.Matches = make([]Match, len(r.Matches))
	copy(a.Matches, r.Matches)
	if a.Rests == nil {
		a.Rests = []ParticipantID{}
	}
	for i := range a.Matches {
		if a.Matches[i].Team1 == nil {
			a.Matches[i].Team1 = []ParticipantID{}
		}
		if a.Matches[i].Team2 == nil {
			a.Matches[i].Team2 = []ParticipantID{}
		}
	}
	return json.Marshal(a)
}

// Match returns the match on the given court, or nil
func (r *Round) Match(court int) *Match {
	for i := range r.Matches {
		if r.Matches[i].Court == court {
			return &r.Matches[i]
		}
	}
	return nil
}

// Participants returns every id in the round: match players first, then rests
func (r Round) Participants() []ParticipantID {
	var ids []ParticipantID
	for _, m := range r.Matches {
		ids = append(ids, m.Team1...)
		ids = append(ids, m.Team2...)
	}
	return append(ids, r.Rests...)
}

// Schedule is the ordered list of rounds
type Schedule []Round

// MarshalJSON emits [] for an empty schedule
func (s Schedule) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Round(s))
}

// Round returns the round with the given number, or nil
func (s Schedule) Round(n int) *Round {
	for i := range s {
		if s[i].Round == n {
			return &s[i]
		}
	}
	return nil
}

// Clone returns a deep copy that shares no slices or score pointers with s
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	for i, r := range s {
		nr := Round{Round: r.Round}
		if r.Matches != nil {
			nr.Matches = make([]Match, len(r.Matches))
			for j, m := range r.Matches {
				nr.Matches[j] = Match{
					Court:  m.Court,
					Team1:  cloneIDs(m.Team1),
					Team2:  cloneIDs(m.Team2),
					Score1: cloneInt(m.Score1),
					Score2: cloneInt(m.Score2),
				}
			}
		}
		nr.Rests = cloneIDs(r.Rests)
		out[i] = nr
	}
	return out
}

// ClearScores returns a copy with every score removed
func (s Schedule) ClearScores() Schedule {
	out := s.Clone()
	for i := range out {
		for j := range out[i].Matches {
			out[i].Matches[j].Score1 = nil
			out[i].Matches[j].Score2 = nil
		}
	}
	return out
}

// ParticipantIDs returns the distinct ids appearing anywhere in the schedule,
// in order of first appearance
func (s Schedule) ParticipantIDs() []ParticipantID {
	seen := make(map[ParticipantID]bool)
	var ids []ParticipantID
	for _, r := range s {
		for _, id := range r.Participants() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func cloneIDs(ids []ParticipantID) []ParticipantID {
	if ids == nil {
		return nil
	}
	out := make([]ParticipantID, len(ids))
	copy(out, ids)
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
