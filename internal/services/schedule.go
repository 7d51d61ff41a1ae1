package services

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/schedule"
	"github.com/tosh-m12/courtmatch/internal/scheduler"
)

// Limits bound what a single generation request may ask for
type Limits struct {
	MaxRounds int
	MaxCourts int
	// Seed, when set, makes every generation without its own seed deterministic
	Seed *int64
}

// GenerateRequest is the input to ScheduleService.Generate. A nil
// ParticipantIDs means "everyone whose attendance is yes".
type GenerateRequest struct {
	GameType       models.GameType        `json:"game_type"`
	Rounds         int                    `json:"rounds"`
	Courts         int                    `json:"courts"`
	ParticipantIDs []models.ParticipantID `json:"participant_ids"`
	Seed           *int64                 `json:"seed,omitempty"`
}

// PublishRequest is the input to ScheduleService.Publish. Schedule is only
// used when no draft exists.
type PublishRequest struct {
	Force    bool             `json:"force"`
	Schedule *models.Schedule `json:"schedule,omitempty"`
	GameType models.GameType  `json:"game_type,omitempty"`
}

// PublishResult is returned by a successful publish
type PublishResult struct {
	OK         bool `json:"ok"`
	Published  bool `json:"published"`
	Locked     bool `json:"locked"`
	ScheduleID int  `json:"schedule_id"`
	Version    int  `json:"version"`
}

// StatusResult describes the lifecycle state without side effects
type StatusResult struct {
	EventID    int                  `json:"event_id"`
	State      models.ScheduleState `json:"state"`
	HasDraft   bool                 `json:"has_draft"`
	Locked     bool                 `json:"locked"`
	ScheduleID int                  `json:"schedule_id,omitempty"`
	Version    int                  `json:"version,omitempty"`
}

// ScheduleService drives the draft, publish and reset lifecycle
type ScheduleService struct {
	log         logger.Logger
	repo        repository.FullRepository
	locks       *locks.Keyed
	metrics     metrics.Recorder
	limits      Limits
	newRand     func(seed *int64) scheduler.Rand
	broadcaster Broadcaster
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(log logger.Logger, repo repository.FullRepository, keyed *locks.Keyed, rec metrics.Recorder, limits Limits) *ScheduleService {
	return &ScheduleService{
		log:     log,
		repo:    repo,
		locks:   keyed,
		metrics: rec,
		limits:  limits,
		newRand: scheduler.NewRand,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScheduleService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRandSource replaces the random source factory
func (s *ScheduleService) SetRandSource(fn func(seed *int64) scheduler.Rand) {
	s.newRand = fn
}

// Generate runs the generator for req and stores the result as the event's
// draft. The published schedule is not touched.
func (s *ScheduleService) Generate(ctx context.Context, eventID int, req GenerateRequest) (*models.Draft, error) {
	gen, err := scheduler.ForGameType(req.GameType)
	if err != nil {
		return nil, err
	}
	if req.Rounds <= 0 || (s.limits.MaxRounds > 0 && req.Rounds > s.limits.MaxRounds) {
		return nil, errors.Validationf("rounds must be between 1 and %d", s.limits.MaxRounds)
	}
	if req.Courts <= 0 || (s.limits.MaxCourts > 0 && req.Courts > s.limits.MaxCourts) {
		return nil, errors.Validationf("courts must be between 1 and %d", s.limits.MaxCourts)
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, fromRepo(err, "event not found")
	}

	roster, err := s.resolveRoster(ctx, eventID, req.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == nil {
		seed = s.limits.Seed
	}
	sched, err := gen.Generate(roster, scheduler.Params{Rounds: req.Rounds, Courts: req.Courts}, s.newRand(seed))
	if err != nil {
		return nil, err
	}

	draft := models.Draft{
		EventID:  eventID,
		Schedule: sched,
		Params: models.GenerationParams{
			GameType:       req.GameType,
			Rounds:         req.Rounds,
			Courts:         req.Courts,
			ParticipantIDs: roster,
			Seed:           seed,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveDraft(ctx, draft); err != nil {
		return nil, errors.Internal(err)
	}

	s.metrics.ScheduleGenerated(string(req.GameType))
	s.log.Info("Draft generated",
		"event_id", eventID,
		"game_type", req.GameType,
		"participants", len(roster),
		"rounds", req.Rounds,
		"courts", req.Courts)
	return &draft, nil
}

// resolveRoster returns ids checked against the event's participants, or the
// attending participants when ids is nil
func (s *ScheduleService) resolveRoster(ctx context.Context, eventID int, ids []models.ParticipantID) ([]models.ParticipantID, error) {
	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	if ids == nil {
		roster := []models.ParticipantID{}
		for _, p := range participants {
			if p.Attendance == models.AttendanceYes {
				roster = append(roster, p.ID)
			}
		}
		return roster, nil
	}

	known := make(map[models.ParticipantID]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, &errors.Error{
				Kind:    errors.ErrValidation,
				Code:    errors.CodeInvalidParticipant,
				Message: "participant " + itoaID(id) + " is not on this event's roster",
			}
		}
	}
	return ids, nil
}

// Draft returns the current draft without discarding it
func (s *ScheduleService) Draft(ctx context.Context, eventID int) (*models.Draft, error) {
	draft, err := s.repo.GetDraft(ctx, eventID)
	if err != nil {
		return nil, fromRepo(err, "no draft for this event")
	}
	return draft, nil
}

// Publish promotes the draft (or, failing that, req.Schedule) to the event's
// published schedule. Existing scores block the publish unless req.Force.
func (s *ScheduleService) Publish(ctx context.Context, eventID int, req PublishRequest) (*PublishResult, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, fromRepo(err, "event not found")
	}

	release, err := s.locks.Acquire(ctx, eventID)
	if err != nil {
		s.metrics.PublishAttempt("busy")
		return nil, err
	}
	defer release()

	existing, err := publishedOrNil(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}
	// Scores are checked before the source so a scored schedule reports
	// score_exists even after its draft was consumed.
	forced := false
	if existing != nil {
		scored, err := s.repo.HasAnyScore(ctx, existing.ID)
		if err != nil {
			return nil, errors.Internal(err)
		}
		if scored && !req.Force {
			s.metrics.PublishAttempt(errors.CodeScoreExists)
			return nil, ErrScoreExists
		}
		forced = scored
	}

	sched, params, err := s.publishSource(ctx, eventID, req)
	if err != nil {
		outcome := errors.CodeOf(err)
		if outcome == "" {
			outcome = "invalid"
		}
		s.metrics.PublishAttempt(outcome)
		return nil, err
	}

	pub, err := s.repo.PublishSchedule(ctx, eventID, sched, params)
	if err != nil {
		return nil, errors.Internal(err)
	}

	outcome := "published"
	if forced {
		outcome = "forced"
	}
	s.metrics.PublishAttempt(outcome)
	s.log.Info("Schedule published",
		"event_id", eventID,
		"schedule_id", pub.ID,
		"version", pub.Version,
		"rounds", len(sched),
		"forced", forced)

	s.broadcastView(ctx, eventID, MsgSchedulePublished, pub)

	return &PublishResult{
		OK:         true,
		Published:  true,
		Locked:     pub.Locked,
		ScheduleID: pub.ID,
		Version:    pub.Version,
	}, nil
}

// publishSource picks the draft, or validates the caller's payload when the
// draft is gone
func (s *ScheduleService) publishSource(ctx context.Context, eventID int, req PublishRequest) (models.Schedule, models.GenerationParams, error) {
	draft, err := s.repo.GetDraft(ctx, eventID)
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, models.GenerationParams{}, errors.Internal(err)
	}
	if draft != nil && len(draft.Schedule) > 0 {
		return draft.Schedule, draft.Params, nil
	}

	if req.Schedule == nil || len(*req.Schedule) == 0 {
		return nil, models.GenerationParams{}, ErrNoDraft
	}

	payload := req.Schedule.ClearScores()
	gt := req.GameType
	if gt == "" {
		gt = inferGameType(payload)
	}
	if !gt.Valid() {
		return nil, models.GenerationParams{}, errors.Validationf("unknown game type %q", gt)
	}
	if err := schedule.Validate(payload, gt); err != nil {
		return nil, models.GenerationParams{}, err
	}

	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, models.GenerationParams{}, errors.Internal(err)
	}
	allowed := make([]models.ParticipantID, len(participants))
	for i, p := range participants {
		allowed[i] = p.ID
	}
	if err := schedule.CheckRoster(payload, allowed); err != nil {
		return nil, models.GenerationParams{}, err
	}

	courts := 0
	for _, r := range payload {
		for _, m := range r.Matches {
			if m.Court > courts {
				courts = m.Court
			}
		}
	}
	return payload, models.GenerationParams{
		GameType:       gt,
		Rounds:         len(payload),
		Courts:         courts,
		ParticipantIDs: payload.ParticipantIDs(),
	}, nil
}

// View renders the published schedule. Any draft is discarded first.
func (s *ScheduleService) View(ctx context.Context, eventID int) (*ScheduleView, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, fromRepo(err, "event not found")
	}
	if err := s.repo.DeleteDraft(ctx, eventID); err != nil {
		return nil, errors.Internal(err)
	}
	pub, err := publishedOrNil(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}
	return buildView(ctx, s.repo, eventID, pub, false)
}

// ViewByToken renders the published schedule of the event with the given
// public token. Any draft is discarded first.
func (s *ScheduleService) ViewByToken(ctx context.Context, token string) (*models.Event, *ScheduleView, error) {
	ev, err := s.repo.GetEventByToken(ctx, token)
	if err != nil {
		return nil, nil, fromRepo(err, "event not found")
	}
	view, err := s.View(ctx, ev.ID)
	if err != nil {
		return nil, nil, err
	}
	return ev, view, nil
}

// Status reports the lifecycle state without discarding the draft
func (s *ScheduleService) Status(ctx context.Context, eventID int) (*StatusResult, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, fromRepo(err, "event not found")
	}
	draft, err := s.repo.GetDraft(ctx, eventID)
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.Internal(err)
	}
	hasDraft := draft != nil && len(draft.Schedule) > 0

	pub, err := publishedOrNil(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}

	res := &StatusResult{
		EventID:  eventID,
		State:    schedule.StateOf(hasDraft, pub),
		HasDraft: hasDraft,
	}
	if pub != nil {
		res.Locked = pub.Locked
		res.ScheduleID = pub.ID
		res.Version = pub.Version
	}
	return res, nil
}

// Reset empties the draft and published schedule, unlocks it and deletes
// every score
func (s *ScheduleService) Reset(ctx context.Context, eventID int) error {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return fromRepo(err, "event not found")
	}

	release, err := s.locks.Acquire(ctx, eventID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.ResetSchedule(ctx, eventID); err != nil {
		return errors.Internal(err)
	}

	s.metrics.ScheduleReset()
	s.log.Info("Schedule reset", "event_id", eventID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(eventID, MsgScheduleReset, map[string]interface{}{"event_id": eventID})
	}
	return nil
}

func (s *ScheduleService) broadcastView(ctx context.Context, eventID int, msgType string, pub *models.PublishedSchedule) {
	if s.broadcaster == nil {
		return
	}
	view, err := buildView(ctx, s.repo, eventID, pub, false)
	if err != nil {
		s.log.Warn("Failed to build schedule view for broadcast", "event_id", eventID, "error", err)
		return
	}
	s.broadcaster.BroadcastEvent(eventID, msgType, view)
}

// inferGameType guesses the game type from the first match's team size
func inferGameType(s models.Schedule) models.GameType {
	for _, r := range s {
		for _, m := range r.Matches {
			if len(m.Team1) == 2 {
				return models.GameTypeDoubles
			}
			return models.GameTypeSingles
		}
	}
	return models.GameTypeSingles
}

func itoaID(id models.ParticipantID) string {
	return strconv.Itoa(int(id))
}
