package services

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/schedule"
)

// Broadcaster defines the interface for pushing schedule changes to clients
type Broadcaster interface {
	BroadcastEvent(eventID int, msgType string, payload interface{})
}

// WebSocket message types
const (
	MsgSchedulePublished   = "schedule_published"
	MsgScoreUpdated        = "score_updated"
	MsgScheduleSubstituted = "schedule_substituted"
	MsgScheduleReset       = "schedule_reset"
)

// ScheduleView is the published schedule as clients see it: scores merged in
// and participant names resolved.
type ScheduleView struct {
	EventID    int                             `json:"event_id"`
	ScheduleID int                             `json:"schedule_id,omitempty"`
	State      models.ScheduleState            `json:"state"`
	Locked     bool                            `json:"locked"`
	Version    int                             `json:"version,omitempty"`
	GameType   models.GameType                 `json:"game_type,omitempty"`
	Schedule   models.Schedule                 `json:"schedule"`
	Names      map[models.ParticipantID]string `json:"names"`
}

// Name returns the display name for id, or "#id" when unknown
func (v *ScheduleView) Name(id models.ParticipantID) string {
	if n, ok := v.Names[id]; ok {
		return n
	}
	return "#" + strconv.Itoa(int(id))
}

// viewRepository is what building a view reads
type viewRepository interface {
	repository.ParticipantRepository
	repository.ScoreRepository
}

// publishedOrNil loads the published schedule, mapping not-found to nil
func publishedOrNil(ctx context.Context, repo repository.ScheduleRepository, eventID int) (*models.PublishedSchedule, error) {
	pub, err := repo.GetPublishedSchedule(ctx, eventID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return pub, nil
}

// activePublished loads the published schedule and fails with
// no_published_schedule when there is none or it was reset to empty.
func activePublished(ctx context.Context, repo repository.ScheduleRepository, eventID int) (*models.PublishedSchedule, error) {
	pub, err := publishedOrNil(ctx, repo, eventID)
	if err != nil {
		return nil, err
	}
	if pub == nil || len(pub.Schedule) == 0 {
		return nil, ErrNoPublishedSchedule
	}
	return pub, nil
}

// buildView renders pub (which may be nil) for eventID
func buildView(ctx context.Context, repo viewRepository, eventID int, pub *models.PublishedSchedule, hasDraft bool) (*ScheduleView, error) {
	view := &ScheduleView{
		EventID:  eventID,
		State:    schedule.StateOf(hasDraft, pub),
		Schedule: models.Schedule{},
		Names:    map[models.ParticipantID]string{},
	}

	participants, err := repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	for _, p := range participants {
		view.Names[p.ID] = p.DisplayName
	}

	if pub == nil {
		return view, nil
	}
	view.ScheduleID = pub.ID
	view.Locked = pub.Locked
	view.Version = pub.Version
	view.GameType = pub.Params.GameType

	records, err := repo.GetScores(ctx, pub.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	view.Schedule = schedule.MergeScores(pub.Schedule, records)
	if view.Schedule == nil {
		view.Schedule = models.Schedule{}
	}
	return view, nil
}
