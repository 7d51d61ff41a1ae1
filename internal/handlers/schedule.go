package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/services"
)

// handleGenerate creates a new draft for the event
func (h *Handlers) handleGenerate(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	draft, err := h.Schedule.Generate(r.Context(), eventID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, draft)
}

// handleGetDraft returns the current draft without discarding it
func (h *Handlers) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	draft, err := h.Schedule.Draft(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, draft)
}

// handlePublish promotes the draft, or a schedule given in the body
func (h *Handlers) handlePublish(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.PublishRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Schedule.Publish(r.Context(), eventID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleReset empties the draft and published schedule and unlocks it
func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Schedule.Reset(r.Context(), eventID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Schedule reset")
}

// handleSetScore writes one side's score
func (h *Handlers) handleSetScore(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Score.SetScore(r.Context(), eventID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleSubstitute replaces the player in one slot
func (h *Handlers) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.SubstituteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Substitution.Substitute(r.Context(), eventID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleGetSchedule returns the published schedule view. Viewing discards
// any pending draft.
func (h *Handlers) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.Schedule.View(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, view)
}

// handleScheduleStatus reports the lifecycle state
func (h *Handlers) handleScheduleStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	status, err := h.Schedule.Status(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, status)
}

// handleScheduleQR serves a PNG QR code of the public schedule page
func (h *Handlers) handleScheduleQR(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Share.QRCode(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// schedulePageData is the data for the public schedule page
type schedulePageData struct {
	Event *models.Event
	View  *services.ScheduleView
}

// handleSchedulePage renders the public schedule page for a share token
func (h *Handlers) handleSchedulePage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	ev, view, err := h.Schedule.ViewByToken(r.Context(), token)
	if err != nil {
		apiErr := ToAPIError(err)
		http.Error(w, apiErr.Message, apiErr.Status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Schedule.Execute(w, schedulePageData{Event: ev, View: view}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleIndex renders the organizer console
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Index.Execute(w, nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
