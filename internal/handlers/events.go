package handlers

import (
	"net/http"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// handleListEvents returns all events, newest first
func (h *Handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Roster.ListEvents(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondOK(w, events)
}

// handleCreateEvent creates an event with a fresh public token
func (h *Handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ev, err := h.Roster.CreateEvent(r.Context(), req.Name, req.EventDate)
	if err != nil {
		respondError(w, err)
		return
	}
	resp, err := h.eventResponse(r, ev)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, resp)
}

// handleGetEvent returns one event with its public page URL
func (h *Handlers) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	ev, err := h.Roster.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	resp, err := h.eventResponse(r, ev)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, resp)
}

func (h *Handlers) eventResponse(r *http.Request, ev *models.Event) (*EventResponse, error) {
	resp := &EventResponse{Event: *ev}
	if h.Share == nil {
		return resp, nil
	}
	url, err := h.Share.PublicURL(r.Context(), ev.ID)
	if err != nil {
		return nil, err
	}
	resp.PublicURL = url
	return resp, nil
}

// handleListParticipants returns an event's roster
func (h *Handlers) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	list, err := h.Roster.ListParticipants(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ParticipantsResponse{EventID: eventID, Participants: list})
}

// handleAddParticipant adds one participant to an event
func (h *Handlers) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ParticipantCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.Roster.AddParticipant(r.Context(), eventID, req.DisplayName, req.Attendance)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, p)
}

// handleSetAttendance records a participant's yes/no/maybe answer
func (h *Handlers) handleSetAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}
	epID, err := parseIntParam(r, "epID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req AttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Roster.SetAttendance(r.Context(), eventID, models.ParticipantID(epID), req.Attendance); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Attendance updated")
}

// handleImportParticipants pulls missing participants from the roster feed
func (h *Handlers) handleImportParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ImportRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	feedURL := req.FeedURL
	if feedURL == "" && h.Settings != nil {
		if feedURL, err = h.Settings.GetRosterFeedURL(r.Context()); err != nil {
			respondError(w, err)
			return
		}
	}

	result, err := h.Roster.ImportParticipants(r.Context(), eventID, feedURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleGetSettings returns all stored settings
func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

// handleUpdateSettings updates the settings present in the request
func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	if req.BaseURL != nil {
		if err := h.Settings.SetBaseURL(ctx, *req.BaseURL); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.RosterFeedURL != nil {
		if err := h.Settings.SetRosterFeedURL(ctx, *req.RosterFeedURL); err != nil {
			respondError(w, err)
			return
		}
	}
	respondSuccess(w, "Settings updated")
}
