package repository

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// EventRepository defines event data operations
type EventRepository interface {
	CreateEvent(ctx context.Context, name, eventDate, publicToken string) (int64, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetEventByToken(ctx context.Context, token string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

// ParticipantRepository defines roster and attendance operations
type ParticipantRepository interface {
	AddParticipant(ctx context.Context, eventID int, displayName, attendance string) (int64, error)
	InsertParticipantIgnore(ctx context.Context, eventID int, displayName string) (bool, error)
	ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error)
	GetParticipant(ctx context.Context, eventID int, id models.ParticipantID) (*models.Participant, error)
	SetAttendance(ctx context.Context, eventID int, id models.ParticipantID, attendance string) error
}

// ScheduleRepository defines draft and published schedule operations
type ScheduleRepository interface {
	SaveDraft(ctx context.Context, draft models.Draft) error
	GetDraft(ctx context.Context, eventID int) (*models.Draft, error)
	DeleteDraft(ctx context.Context, eventID int) error
	GetPublishedSchedule(ctx context.Context, eventID int) (*models.PublishedSchedule, error)
	PublishSchedule(ctx context.Context, eventID int, schedule models.Schedule, params models.GenerationParams) (*models.PublishedSchedule, error)
	ReplacePublishedSchedule(ctx context.Context, scheduleID, version int, schedule models.Schedule, clear *ScoreKey) (int, error)
	ResetSchedule(ctx context.Context, eventID int) error
}

// ScoreRepository defines score ledger operations
type ScoreRepository interface {
	GetScores(ctx context.Context, scheduleID int) ([]models.ScoreRecord, error)
	HasAnyScore(ctx context.Context, scheduleID int) (bool, error)
	SetScore(ctx context.Context, scheduleID int, key ScoreKey, side string, value *int) (bool, error)
}

// SettingsRepository defines key/value settings operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	EventRepository
	ParticipantRepository
	ScheduleRepository
	ScoreRepository
	SettingsRepository
}

// ScoreKey identifies one match of a published schedule
type ScoreKey struct {
	Round int
	Court int
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
