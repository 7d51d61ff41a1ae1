package mock

import (
	"context"

	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.PublishScheduleError = errors.New("database error")
//	svc := services.NewScheduleService(log, mockRepo, keyed, metrics.Nop{}, limits)
//	_, err := svc.Publish(ctx, eventID, services.PublishRequest{})
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Event Errors =====
	CreateEventError     error
	GetEventError        error
	GetEventByTokenError error

	// ===== Participant Errors =====
	AddParticipantError          error
	InsertParticipantIgnoreError error
	ListParticipantsError        error
	GetParticipantError          error
	SetAttendanceError           error

	// ===== Schedule Errors =====
	SaveDraftError                error
	GetDraftError                 error
	DeleteDraftError              error
	GetPublishedScheduleError     error
	PublishScheduleError          error
	ReplacePublishedScheduleError error
	ResetScheduleError            error

	// ===== Score Errors =====
	GetScoresError   error
	HasAnyScoreError error
	SetScoreError    error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Event Methods =====

func (m *Repository) CreateEvent(ctx context.Context, name, eventDate, publicToken string) (int64, error) {
	if m.CreateEventError != nil {
		return 0, m.CreateEventError
	}
	return m.FullRepository.CreateEvent(ctx, name, eventDate, publicToken)
}

func (m *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	if m.GetEventError != nil {
		return nil, m.GetEventError
	}
	return m.FullRepository.GetEvent(ctx, id)
}

func (m *Repository) GetEventByToken(ctx context.Context, token string) (*models.Event, error) {
	if m.GetEventByTokenError != nil {
		return nil, m.GetEventByTokenError
	}
	return m.FullRepository.GetEventByToken(ctx, token)
}

// ===== Participant Methods =====

func (m *Repository) AddParticipant(ctx context.Context, eventID int, displayName, attendance string) (int64, error) {
	if m.AddParticipantError != nil {
		return 0, m.AddParticipantError
	}
	return m.FullRepository.AddParticipant(ctx, eventID, displayName, attendance)
}

func (m *Repository) InsertParticipantIgnore(ctx context.Context, eventID int, displayName string) (bool, error) {
	if m.InsertParticipantIgnoreError != nil {
		return false, m.InsertParticipantIgnoreError
	}
	return m.FullRepository.InsertParticipantIgnore(ctx, eventID, displayName)
}

func (m *Repository) ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error) {
	if m.ListParticipantsError != nil {
		return nil, m.ListParticipantsError
	}
	return m.FullRepository.ListParticipants(ctx, eventID)
}

func (m *Repository) GetParticipant(ctx context.Context, eventID int, id models.ParticipantID) (*models.Participant, error) {
	if m.GetParticipantError != nil {
		return nil, m.GetParticipantError
	}
	return m.FullRepository.GetParticipant(ctx, eventID, id)
}

func (m *Repository) SetAttendance(ctx context.Context, eventID int, id models.ParticipantID, attendance string) error {
	if m.SetAttendanceError != nil {
		return m.SetAttendanceError
	}
	return m.FullRepository.SetAttendance(ctx, eventID, id, attendance)
}

// ===== Schedule Methods =====

func (m *Repository) SaveDraft(ctx context.Context, draft models.Draft) error {
	if m.SaveDraftError != nil {
		return m.SaveDraftError
	}
	return m.FullRepository.SaveDraft(ctx, draft)
}

func (m *Repository) GetDraft(ctx context.Context, eventID int) (*models.Draft, error) {
	if m.GetDraftError != nil {
		return nil, m.GetDraftError
	}
	return m.FullRepository.GetDraft(ctx, eventID)
}

func (m *Repository) DeleteDraft(ctx context.Context, eventID int) error {
	if m.DeleteDraftError != nil {
		return m.DeleteDraftError
	}
	return m.FullRepository.DeleteDraft(ctx, eventID)
}

func (m *Repository) GetPublishedSchedule(ctx context.Context, eventID int) (*models.PublishedSchedule, error) {
	if m.GetPublishedScheduleError != nil {
		return nil, m.GetPublishedScheduleError
	}
	return m.FullRepository.GetPublishedSchedule(ctx, eventID)
}

func (m *Repository) PublishSchedule(ctx context.Context, eventID int, schedule models.Schedule, params models.GenerationParams) (*models.PublishedSchedule, error) {
	if m.PublishScheduleError != nil {
		return nil, m.PublishScheduleError
	}
	return m.FullRepository.PublishSchedule(ctx, eventID, schedule, params)
}

func (m *Repository) ReplacePublishedSchedule(ctx context.Context, scheduleID, version int, schedule models.Schedule, clear *repository.ScoreKey) (int, error) {
	if m.ReplacePublishedScheduleError != nil {
		return 0, m.ReplacePublishedScheduleError
	}
	return m.FullRepository.ReplacePublishedSchedule(ctx, scheduleID, version, schedule, clear)
}

func (m *Repository) ResetSchedule(ctx context.Context, eventID int) error {
	if m.ResetScheduleError != nil {
		return m.ResetScheduleError
	}
	return m.FullRepository.ResetSchedule(ctx, eventID)
}

// ===== Score Methods =====

func (m *Repository) GetScores(ctx context.Context, scheduleID int) ([]models.ScoreRecord, error) {
	if m.GetScoresError != nil {
		return nil, m.GetScoresError
	}
	return m.FullRepository.GetScores(ctx, scheduleID)
}

func (m *Repository) HasAnyScore(ctx context.Context, scheduleID int) (bool, error) {
	if m.HasAnyScoreError != nil {
		return false, m.HasAnyScoreError
	}
	return m.FullRepository.HasAnyScore(ctx, scheduleID)
}

func (m *Repository) SetScore(ctx context.Context, scheduleID int, key repository.ScoreKey, side string, value *int) (bool, error) {
	if m.SetScoreError != nil {
		return false, m.SetScoreError
	}
	return m.FullRepository.SetScore(ctx, scheduleID, key, side, value)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
