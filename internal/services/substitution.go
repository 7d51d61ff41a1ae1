package services

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/schedule"
)

// SubstituteRequest puts NewParticipantID into one slot of the published schedule
type SubstituteRequest struct {
	ScheduleID       int                  `json:"schedule_id,omitempty"`
	Round            int                  `json:"round"`
	Court            int                  `json:"court"`
	Team             int                  `json:"team"`
	SlotIndex        int                  `json:"slot_index"`
	NewParticipantID models.ParticipantID `json:"new_participant_id"`
}

// SubstituteResult is the updated schedule view plus whether anything changed
type SubstituteResult struct {
	OK      bool `json:"ok"`
	Changed bool `json:"changed"`
	ScheduleView
}

// SubstitutionService swaps players inside the published schedule
type SubstitutionService struct {
	log         logger.Logger
	repo        repository.FullRepository
	locks       *locks.Keyed
	metrics     metrics.Recorder
	broadcaster Broadcaster
}

// NewSubstitutionService creates a new SubstitutionService
func NewSubstitutionService(log logger.Logger, repo repository.FullRepository, keyed *locks.Keyed, rec metrics.Recorder) *SubstitutionService {
	return &SubstitutionService{log: log, repo: repo, locks: keyed, metrics: rec}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SubstitutionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Substitute places req.NewParticipantID into the addressed slot. The new
// participant must be attending. Only the touched match's score is deleted,
// and nothing is written when the participant already holds the slot.
func (s *SubstitutionService) Substitute(ctx context.Context, eventID int, req SubstituteRequest) (*SubstituteResult, error) {
	slot := schedule.Slot{Round: req.Round, Court: req.Court, Team: req.Team, Index: req.SlotIndex}
	if slot.Team != 1 && slot.Team != 2 {
		return nil, errors.Validationf("team must be 1 or 2, got %d", slot.Team)
	}
	if slot.Index < 0 {
		return nil, errors.Validationf("slot index must be non-negative, got %d", slot.Index)
	}

	p, err := s.repo.GetParticipant(ctx, eventID, req.NewParticipantID)
	if err != nil {
		return nil, fromRepo(err, "participant not found for this event")
	}
	if p.Attendance != models.AttendanceYes {
		return nil, errors.State(errors.CodeNotEligible, p.DisplayName+" is not attending this event")
	}

	release, err := s.locks.Acquire(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer release()

	pub, err := activePublished(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}
	if req.ScheduleID != 0 && req.ScheduleID != pub.ID {
		return nil, errors.NotFoundf("schedule %d not found for this event", req.ScheduleID)
	}

	updated, changed, err := schedule.Substitute(pub.Schedule, slot, req.NewParticipantID)
	if err != nil {
		return nil, err
	}
	s.metrics.Substitution(changed)

	if changed {
		version, err := s.repo.ReplacePublishedSchedule(ctx, pub.ID, pub.Version, updated,
			&repository.ScoreKey{Round: slot.Round, Court: slot.Court})
		if err != nil {
			return nil, fromRepo(err, "schedule not found")
		}
		pub.Schedule = updated
		pub.Version = version
		s.log.Info("Player substituted",
			"event_id", eventID,
			"schedule_id", pub.ID,
			"round", slot.Round,
			"court", slot.Court,
			"team", slot.Team,
			"slot_index", slot.Index,
			"ep_id", req.NewParticipantID)
	}

	view, err := buildView(ctx, s.repo, eventID, pub, false)
	if err != nil {
		return nil, err
	}
	if changed && s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(eventID, MsgScheduleSubstituted, view)
	}
	return &SubstituteResult{OK: true, Changed: changed, ScheduleView: *view}, nil
}
