package handler

import (
	"net/http"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/service"
)

// PasswordHandler handles the forgot and reset password flow.
type PasswordHandler struct {
	service *service.PasswordService
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(svc *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{service: svc}
}

// HandleForgot handles POST /forgot-password requests.
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleReset handles POST /reset-password requests.
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
