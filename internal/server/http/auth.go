package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password required")
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Password)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		h.Log.Warn(r.Context(), "failed login attempt", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	case err != nil:
		h.Log.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}
