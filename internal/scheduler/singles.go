package scheduler

import (
	"sort"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// Singles generates 1v1 rounds
type Singles struct{}

func (Singles) GameType() models.GameType { return models.GameTypeSingles }

// Generate builds params.Rounds rounds of singles matches. Players with the
// fewest matches, then the longest current rest streak, are placed first; each
// is paired with the opponent they have met least.
func (Singles) Generate(participants []models.ParticipantID, params Params, rng Rand) (models.Schedule, error) {
	if err := checkDistinct(participants); err != nil {
		return nil, err
	}
	n := len(participants)
	if n < 2 || params.Rounds <= 0 || params.Courts <= 0 {
		return models.Schedule{}, nil
	}

	matchCount := make(map[models.ParticipantID]int, n)
	restStreak := make(map[models.ParticipantID]int, n)
	pairCount := make(map[pairKey]int)

	maxMatches := min(params.Courts, n/2)
	schedule := make(models.Schedule, 0, params.Rounds)

	for r := 1; r <= params.Rounds; r++ {
		order := append([]models.ParticipantID(nil), participants...)
		shuffleIDs(rng, order)
		sort.SliceStable(order, func(i, j int) bool {
			a, b := order[i], order[j]
			if matchCount[a] != matchCount[b] {
				return matchCount[a] < matchCount[b]
			}
			return restStreak[a] > restStreak[b]
		})

		available := order
		matches := make([]models.Match, 0, maxMatches)
		playing := make(map[models.ParticipantID]bool, 2*maxMatches)

		for len(matches) < maxMatches && len(available) >= 2 {
			p1 := available[0]
			available = available[1:]

			candidates := append([]models.ParticipantID(nil), available...)
			shuffleIDs(rng, candidates)
			sort.SliceStable(candidates, func(i, j int) bool {
				a, b := candidates[i], candidates[j]
				pa, pb := pairCount[keyOf(p1, a)], pairCount[keyOf(p1, b)]
				if pa != pb {
					return pa < pb
				}
				return matchCount[a] < matchCount[b]
			})
			p2 := candidates[0]
			available = removeAt(available, indexOf(available, p2))

			matches = append(matches, models.Match{
				Court: len(matches) + 1,
				Team1: []models.ParticipantID{p1},
				Team2: []models.ParticipantID{p2},
			})
			matchCount[p1]++
			matchCount[p2]++
			pairCount[keyOf(p1, p2)]++
			playing[p1] = true
			playing[p2] = true
		}

		rests := make([]models.ParticipantID, 0, n-len(playing))
		for _, p := range participants {
			if playing[p] {
				restStreak[p] = 0
				continue
			}
			restStreak[p]++
			rests = append(rests, p)
		}

		schedule = append(schedule, models.Round{Round: r, Matches: matches, Rests: rests})
	}

	return schedule, nil
}
