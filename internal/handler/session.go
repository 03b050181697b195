package handler

import (
	"net/http"

	"github.com/roleplay/roleplay-go/internal/middleware"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/service"
)

// SessionHandler handles HTTP requests for login and logout.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// HandleLogin handles POST /sessions requests.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogout handles DELETE /sessions requests.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.TokenIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), tokenID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
