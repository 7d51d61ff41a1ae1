package handlers

// LoginRequest carries the organizer password
type LoginRequest struct {
	Password string `json:"password"`
}

// EventCreateRequest represents a request to create an event
type EventCreateRequest struct {
	Name      string `json:"name"`
	EventDate string `json:"event_date"`
}

// ParticipantCreateRequest represents a request to add a participant
type ParticipantCreateRequest struct {
	DisplayName string `json:"display_name"`
	Attendance  string `json:"attendance"`
}

// AttendanceRequest sets a participant's attendance answer
type AttendanceRequest struct {
	Attendance string `json:"attendance"`
}

// ImportRequest represents a request to import the roster feed. An empty
// FeedURL falls back to the configured roster_feed_url setting.
type ImportRequest struct {
	FeedURL string `json:"feed_url"`
}

// SettingsUpdateRequest represents a request to update settings. Nil fields
// are left unchanged.
type SettingsUpdateRequest struct {
	BaseURL       *string `json:"base_url"`
	RosterFeedURL *string `json:"roster_feed_url"`
}
