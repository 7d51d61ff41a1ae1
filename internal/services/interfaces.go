package services

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// RosterServicer defines the interface for event and participant operations
type RosterServicer interface {
	CreateEvent(ctx context.Context, name, eventDate string) (*models.Event, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetEventByToken(ctx context.Context, token string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	AddParticipant(ctx context.Context, eventID int, displayName, attendance string) (*models.Participant, error)
	ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error)
	SetAttendance(ctx context.Context, eventID int, id models.ParticipantID, attendance string) error
	ImportParticipants(ctx context.Context, eventID int, feedURL string) (*ImportResult, error)
}

// ScheduleServicer defines the interface for the schedule lifecycle
type ScheduleServicer interface {
	Generate(ctx context.Context, eventID int, req GenerateRequest) (*models.Draft, error)
	Draft(ctx context.Context, eventID int) (*models.Draft, error)
	Publish(ctx context.Context, eventID int, req PublishRequest) (*PublishResult, error)
	View(ctx context.Context, eventID int) (*ScheduleView, error)
	ViewByToken(ctx context.Context, token string) (*models.Event, *ScheduleView, error)
	Status(ctx context.Context, eventID int) (*StatusResult, error)
	Reset(ctx context.Context, eventID int) error
	SetBroadcaster(b Broadcaster)
}

// ScoreServicer defines the interface for score entry
type ScoreServicer interface {
	SetScore(ctx context.Context, eventID int, req ScoreRequest) (*ScoreResult, error)
	SetBroadcaster(b Broadcaster)
}

// SubstitutionServicer defines the interface for player substitution
type SubstitutionServicer interface {
	Substitute(ctx context.Context, eventID int, req SubstituteRequest) (*SubstituteResult, error)
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetRosterFeedURL(ctx context.Context) (string, error)
	SetRosterFeedURL(ctx context.Context, url string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
}

// ShareServicer defines the interface for public share links
type ShareServicer interface {
	PublicURL(ctx context.Context, eventID int) (string, error)
	QRCode(ctx context.Context, eventID int) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ RosterServicer       = (*RosterService)(nil)
	_ ScheduleServicer     = (*ScheduleService)(nil)
	_ ScoreServicer        = (*ScoreService)(nil)
	_ SubstitutionServicer = (*SubstitutionService)(nil)
	_ SettingsServicer     = (*SettingsService)(nil)
	_ ShareServicer        = (*ShareService)(nil)
)
