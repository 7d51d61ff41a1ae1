package services

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/schedule"
)

// ScoreRequest sets one side's score of one match. A nil Value clears it.
// ScheduleID is optional; when given it must match the event's schedule.
type ScoreRequest struct {
	ScheduleID int    `json:"schedule_id,omitempty"`
	Round      int    `json:"round"`
	Court      int    `json:"court"`
	Side       string `json:"side"`
	Value      *int   `json:"value"`
}

// ScoreResult is returned after a score write
type ScoreResult struct {
	OK     bool   `json:"ok"`
	Round  int    `json:"round"`
	Court  int    `json:"court"`
	Side   string `json:"side"`
	Value  *int   `json:"value"`
	Locked bool   `json:"locked"`
}

// ScoreService records match results against the published schedule
type ScoreService struct {
	log         logger.Logger
	repo        repository.FullRepository
	locks       *locks.Keyed
	metrics     metrics.Recorder
	broadcaster Broadcaster
}

// NewScoreService creates a new ScoreService
func NewScoreService(log logger.Logger, repo repository.FullRepository, keyed *locks.Keyed, rec metrics.Recorder) *ScoreService {
	return &ScoreService{log: log, repo: repo, locks: keyed, metrics: rec}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScoreService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetScore writes one side's score. The first non-null score locks the
// published schedule; clearing a score never unlocks it.
func (s *ScoreService) SetScore(ctx context.Context, eventID int, req ScoreRequest) (*ScoreResult, error) {
	if req.Side != "a" && req.Side != "b" {
		return nil, ErrInvalidSide
	}
	if err := schedule.CheckScoreValue(req.Value); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, fromRepo(err, "event not found")
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
	if !schedule.HasMatch(pub.Schedule, req.Round, req.Court) {
		return nil, errors.NotFoundf("no match at round %d court %d", req.Round, req.Court)
	}

	locked, err := s.repo.SetScore(ctx, pub.ID, repository.ScoreKey{Round: req.Round, Court: req.Court}, req.Side, req.Value)
	if err != nil {
		return nil, fromRepo(err, "schedule not found")
	}

	s.metrics.ScoreRecorded()
	s.log.Info("Score recorded",
		"event_id", eventID,
		"schedule_id", pub.ID,
		"round", req.Round,
		"court", req.Court,
		"side", req.Side,
		"cleared", req.Value == nil,
		"locked", locked)
	if locked && !pub.Locked {
		s.log.Info("Schedule locked", "event_id", eventID, "schedule_id", pub.ID)
	}

	result := &ScoreResult{
		OK:     true,
		Round:  req.Round,
		Court:  req.Court,
		Side:   req.Side,
		Value:  req.Value,
		Locked: locked,
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(eventID, MsgScoreUpdated, result)
	}
	return result, nil
}
