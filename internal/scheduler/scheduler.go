// Package scheduler builds multi-round singles and doubles schedules from a
// list of participant ids. The generators are greedy heuristics: they favour
// players who have played least, avoid repeat pairings and oppositions, and
// spread rests, but they do not search for an optimal schedule.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/models"
)

// Rand is the source of randomness used for tie-breaking and shuffles.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a Rand seeded with seed, or with the current time when seed is nil
func NewRand(seed *int64) Rand {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewSource(s))
}

// Params are the per-call generation settings
type Params struct {
	Rounds int
	Courts int
}

// Generator produces a schedule for one game type
type Generator interface {
	Generate(participants []models.ParticipantID, params Params, rng Rand) (models.Schedule, error)
	GameType() models.GameType
}

// ForGameType returns the generator for the given game type
func ForGameType(gt models.GameType) (Generator, error) {
	switch gt {
	case models.GameTypeSingles:
		return Singles{}, nil
	case models.GameTypeDoubles:
		return Doubles{}, nil
	default:
		return nil, errors.Validationf("unknown game type %q", gt)
	}
}

// pairKey is an unordered pair of participants
type pairKey struct {
	lo, hi models.ParticipantID
}

func keyOf(a, b models.ParticipantID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// checkDistinct rejects duplicate ids; each id must be a distinct roster entry
func checkDistinct(participants []models.ParticipantID) error {
	seen := make(map[models.ParticipantID]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return errors.Validationf("participant %d listed more than once", p)
		}
		seen[p] = true
	}
	return nil
}

func shuffleIDs(rng Rand, ids []models.ParticipantID) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

func removeAt(ids []models.ParticipantID, i int) []models.ParticipantID {
	return append(ids[:i], ids[i+1:]...)
}

func indexOf(ids []models.ParticipantID, id models.ParticipantID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
