package handlers

import (
	"net/http"

	"github.com/tosh-m12/courtmatch/internal/auth"
)

// handleLogin exchanges the organizer password for a session. The token is
// set as a cookie and also returned for clients using bearer auth.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token, h.Auth.TTL())
	respondOK(w, LoginResponse{
		OK:        true,
		Token:     token,
		ExpiresIn: int(h.Auth.TTL().Seconds()),
	})
}

// handleLogout revokes the current session and clears the cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		h.Auth.Logout(token)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}
