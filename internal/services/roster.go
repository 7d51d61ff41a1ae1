package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/pkg/rosterfeed"
)

// RosterRepository is the data access RosterService needs
type RosterRepository interface {
	repository.EventRepository
	repository.ParticipantRepository
}

// ImportResult summarises a roster feed import
type ImportResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// RosterService manages events and their participants
type RosterService struct {
	log    logger.Logger
	repo   RosterRepository
	client rosterfeed.Client
}

// NewRosterService creates a new RosterService
func NewRosterService(log logger.Logger, repo RosterRepository, client rosterfeed.Client) *RosterService {
	return &RosterService{log: log, repo: repo, client: client}
}

// CreateEvent creates an event with a fresh public share token
func (s *RosterService) CreateEvent(ctx context.Context, name, eventDate string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	id, err := s.repo.CreateEvent(ctx, name, strings.TrimSpace(eventDate), uuid.NewString())
	if err != nil {
		return nil, fromRepo(err, "event not found")
	}
	s.log.Info("Event created", "event_id", id, "name", name)
	return s.GetEvent(ctx, int(id))
}

// GetEvent returns an event by id
func (s *RosterService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "event not found")
	}
	return ev, nil
}

// GetEventByToken returns an event by its public share token
func (s *RosterService) GetEventByToken(ctx context.Context, token string) (*models.Event, error) {
	ev, err := s.repo.GetEventByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "event not found")
	}
	return ev, nil
}

// ListEvents returns all events, newest first
func (s *RosterService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return events, nil
}

// AddParticipant adds a named participant. An empty attendance means "maybe".
func (s *RosterService) AddParticipant(ctx context.Context, eventID int, displayName, attendance string) (*models.Participant, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyName
	}
	if attendance == "" {
		attendance = models.AttendanceMaybe
	}
	if !validAttendance(attendance) {
		return nil, ErrInvalidAttendance
	}
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	id, err := s.repo.AddParticipant(ctx, eventID, displayName, attendance)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConflict, "participant could not be added; names must be unique per event")
	}
	return &models.Participant{
		ID:          models.ParticipantID(id),
		EventID:     eventID,
		DisplayName: displayName,
		Attendance:  attendance,
	}, nil
}

// ListParticipants returns an event's roster
func (s *RosterService) ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if list == nil {
		list = []models.Participant{}
	}
	return list, nil
}

// SetAttendance records a participant's attendance answer
func (s *RosterService) SetAttendance(ctx context.Context, eventID int, id models.ParticipantID, attendance string) error {
	if !validAttendance(attendance) {
		return ErrInvalidAttendance
	}
	if err := s.repo.SetAttendance(ctx, eventID, id, attendance); err != nil {
		return fromRepo(err, "participant not found")
	}
	s.log.Debug("Attendance updated", "event_id", eventID, "ep_id", id, "attendance", attendance)
	return nil
}

// ImportParticipants adds every active member of the roster feed that is not
// yet on the event's roster. A non-empty feedURL overrides the client's URL.
func (s *RosterService) ImportParticipants(ctx context.Context, eventID int, feedURL string) (*ImportResult, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if feedURL != "" {
		s.client.SetBaseURL(feedURL)
	}
	if s.client.BaseURL() == "" {
		return nil, ErrNoRosterFeed
	}

	members, err := s.client.FetchRoster(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to fetch roster feed")
	}

	result := &ImportResult{Fetched: len(members)}
	for _, m := range members {
		name := m.DisplayName()
		if !m.IsActive() || name == "" {
			result.Skipped++
			continue
		}
		created, err := s.repo.InsertParticipantIgnore(ctx, eventID, name)
		if err != nil {
			return nil, errors.Internal(err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	s.log.Info("Roster imported", "event_id", eventID, "fetched", result.Fetched, "created", result.Created)
	return result, nil
}
