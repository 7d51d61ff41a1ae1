package scheduler

import (
	"sort"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// arrangementTrials bounds the random search for low-repeat oppositions
const arrangementTrials = 40

// Doubles generates 2v2 rounds
type Doubles struct{}

func (Doubles) GameType() models.GameType { return models.GameTypeDoubles }

type team [2]models.ParticipantID

// doublesState carries the fairness counters across rounds of one call
type doublesState struct {
	rng        Rand
	pairCount  map[pairKey]int
	vsCount    map[pairKey]int
	restCount  map[models.ParticipantID]int
	lastRested map[models.ParticipantID]int
}

// Generate builds params.Rounds rounds of doubles matches. Every participant
// appears in exactly one of a match or the round's rests.
func (Doubles) Generate(participants []models.ParticipantID, params Params, rng Rand) (models.Schedule, error) {
	if err := checkDistinct(participants); err != nil {
		return nil, err
	}
	n := len(participants)
	if n < 4 || params.Rounds <= 0 || params.Courts <= 0 {
		return models.Schedule{}, nil
	}

	st := &doublesState{
		rng:        rng,
		pairCount:  make(map[pairKey]int),
		vsCount:    make(map[pairKey]int),
		restCount:  make(map[models.ParticipantID]int, n),
		lastRested: make(map[models.ParticipantID]int, n),
	}

	schedule := make(models.Schedule, 0, params.Rounds)
	for r := 1; r <= params.Rounds; r++ {
		schedule = append(schedule, st.round(r, participants, params.Courts))
	}
	return schedule, nil
}

func (st *doublesState) round(r int, participants []models.ParticipantID, courts int) models.Round {
	maxPlayers := courts * 4

	var rests []models.ParticipantID
	playing := append([]models.ParticipantID(nil), participants...)
	if len(playing) > maxPlayers {
		resting := st.pickRests(r, playing, len(playing)-maxPlayers)
		rests = append(rests, resting...)
		playing = without(playing, resting)
	}

	// An odd player out sits this round
	if len(playing)%2 != 0 {
		leftover := st.pickRests(r, playing, 1)
		rests = append(rests, leftover...)
		playing = without(playing, leftover)
	}

	pairs := st.formPairs(playing)

	if len(pairs)%2 != 0 {
		last := pairs[len(pairs)-1]
		pairs = pairs[:len(pairs)-1]
		for _, p := range last {
			st.markRested(p, r)
		}
		rests = append(rests, last[0], last[1])
	}

	matches := make([]models.Match, 0, len(pairs)/2)
	order := st.arrange(pairs)
	for i := 0; i+1 < len(order); i += 2 {
		t1, t2 := pairs[order[i]], pairs[order[i+1]]
		matches = append(matches, models.Match{
			Court: i/2 + 1,
			Team1: []models.ParticipantID{t1[0], t1[1]},
			Team2: []models.ParticipantID{t2[0], t2[1]},
		})
		for _, x := range t1 {
			for _, y := range t2 {
				st.vsCount[keyOf(x, y)]++
			}
		}
	}

	if rests == nil {
		rests = []models.ParticipantID{}
	}
	return models.Round{Round: r, Matches: matches, Rests: rests}
}

// pickRests chooses count players to rest in round r: fewest rests so far,
// then not rested last round, then random. Chosen players are marked rested.
func (st *doublesState) pickRests(r int, pool []models.ParticipantID, count int) []models.ParticipantID {
	type scored struct {
		id      models.ParticipantID
		rests   int
		penalty int
		tie     float64
	}
	cands := make([]scored, len(pool))
	for i, p := range pool {
		penalty := 0
		if last, ok := st.lastRested[p]; ok && last == r-1 {
			penalty = 1
		}
		cands[i] = scored{id: p, rests: st.restCount[p], penalty: penalty, tie: st.rng.Float64()}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.rests != b.rests {
			return a.rests < b.rests
		}
		if a.penalty != b.penalty {
			return a.penalty < b.penalty
		}
		return a.tie < b.tie
	})

	out := make([]models.ParticipantID, 0, count)
	for _, c := range cands[:count] {
		st.markRested(c.id, r)
		out = append(out, c.id)
	}
	return out
}

func (st *doublesState) markRested(p models.ParticipantID, r int) {
	st.restCount[p]++
	st.lastRested[p] = r
}

// formPairs greedily partners each player with whoever they have partnered least
func (st *doublesState) formPairs(playing []models.ParticipantID) []team {
	pool := append([]models.ParticipantID(nil), playing...)
	shuffleIDs(st.rng, pool)

	pairs := make([]team, 0, len(pool)/2)
	for len(pool) >= 2 {
		a := pool[0]
		pool = pool[1:]

		candidates := append([]models.ParticipantID(nil), pool...)
		shuffleIDs(st.rng, candidates)
		best, bestScore := candidates[0], st.pairCount[keyOf(a, candidates[0])]
		for _, b := range candidates[1:] {
			if s := st.pairCount[keyOf(a, b)]; s < bestScore {
				best, bestScore = b, s
			}
		}

		pool = removeAt(pool, indexOf(pool, best))
		pairs = append(pairs, team{a, best})
		st.pairCount[keyOf(a, best)]++
	}
	return pairs
}

// arrange returns an ordering of pair indexes where consecutive entries face
// each other, preferring arrangements whose players have met least.
func (st *doublesState) arrange(pairs []team) []int {
	idxs := make([]int, len(pairs))
	for i := range idxs {
		idxs[i] = i
	}

	var best []int
	bestScore := 0
	for trial := 0; trial < arrangementTrials; trial++ {
		st.rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })

		score, ok := st.score(pairs, idxs)
		if !ok {
			continue
		}
		if best == nil || score < bestScore {
			best = append([]int(nil), idxs...)
			bestScore = score
			if score == 0 {
				break
			}
		}
	}

	if best == nil {
		best = make([]int, len(pairs))
		for i := range best {
			best[i] = i
		}
	}
	return best
}

func (st *doublesState) score(pairs []team, order []int) (int, bool) {
	total := 0
	for i := 0; i+1 < len(order); i += 2 {
		t1, t2 := pairs[order[i]], pairs[order[i+1]]
		for _, x := range t1 {
			for _, y := range t2 {
				if x == y {
					return 0, false
				}
				total += st.vsCount[keyOf(x, y)]
			}
		}
	}
	return total, true
}

func without(ids, drop []models.ParticipantID) []models.ParticipantID {
	skip := make(map[models.ParticipantID]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	out := make([]models.ParticipantID, 0, len(ids))
	for _, id := range ids {
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}
