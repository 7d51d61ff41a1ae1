package models

import "time"

// GameType selects the generator used for a schedule
type GameType string

const (
	GameTypeSingles GameType = "singles"
	GameTypeDoubles GameType = "doubles"
)

// Valid reports whether the game type is one we can generate
func (g GameType) Valid() bool {
	return g == GameTypeSingles || g == GameTypeDoubles
}

// TeamSize is the number of players per side
func (g GameType) TeamSize() int {
	if g == GameTypeDoubles {
		return 2
	}
	return 1
}

// Attendance values for an event participant
const (
	AttendanceYes   = "yes"
	AttendanceNo    = "no"
	AttendanceMaybe = "maybe"
)

// ScheduleState is the lifecycle state of an event's schedule
type ScheduleState string

const (
	StateNoSchedule ScheduleState = "NO_SCHEDULE"
	StateDraft      ScheduleState = "DRAFT"
	StatePublished  ScheduleState = "PUBLISHED"
	StateLocked     ScheduleState = "LOCKED"
)

// Event is a single club session that matches are scheduled for
type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	EventDate   string    `json:"event_date"`
	PublicToken string    `json:"public_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// Participant is an event participant; its ID is the ep_id used by the scheduler
type Participant struct {
	ID                ParticipantID `json:"id"`
	EventID           int           `json:"event_id"`
	DisplayName       string        `json:"display_name"`
	Attendance        string        `json:"attendance"`
	ParticipatesMatch bool          `json:"participates_match"`
}

// GenerationParams records what a draft was generated from
type GenerationParams struct {
	GameType       GameType        `json:"game_type"`
	Rounds         int             `json:"rounds"`
	Courts         int             `json:"courts"`
	ParticipantIDs []ParticipantID `json:"participant_ids"`
	Seed           *int64          `json:"seed,omitempty"`
}

// Draft is the disposable, most recently generated schedule for an event
type Draft struct {
	EventID   int              `json:"event_id"`
	Schedule  Schedule         `json:"schedule"`
	Params    GenerationParams `json:"params"`
	CreatedAt time.Time        `json:"created_at"`
}

// PublishedSchedule is the schedule of record for an event
type PublishedSchedule struct {
	ID        int              `json:"id"`
	EventID   int              `json:"event_id"`
	Schedule  Schedule         `json:"schedule"`
	Params    GenerationParams `json:"params"`
	Locked    bool             `json:"locked"`
	LockedAt  *time.Time       `json:"locked_at,omitempty"`
	Version   int              `json:"version"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ScoreRecord holds the two sides' scores for one (round, court)
type ScoreRecord struct {
	ScheduleID int  `json:"schedule_id"`
	Round      int  `json:"round"`
	Court      int  `json:"court"`
	Score1     *int `json:"score1"`
	Score2     *int `json:"score2"`
}

// HasValue reports whether either side has a non-null score
func (s ScoreRecord) HasValue() bool {
	return s.Score1 != nil || s.Score2 != nil
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	EventID int         `json:"event_id,omitempty"`
	Payload interface{} `json:"payload"`
}
