package handlers

import "github.com/tosh-m12/courtmatch/internal/models"

// LoginResponse is returned after a successful login
type LoginResponse struct {
	OK        bool   `json:"ok"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// EventResponse is an event plus its public schedule page URL
type EventResponse struct {
	models.Event
	PublicURL string `json:"public_url,omitempty"`
}

// ParticipantsResponse wraps an event's roster
type ParticipantsResponse struct {
	EventID      int                  `json:"event_id"`
	Participants []models.Participant `json:"participants"`
}
