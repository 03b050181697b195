package handler

import (
	"net/http"

	"github.com/roleplay/roleplay-go/internal/middleware"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleRegister handles POST /users requests.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.UserEnvelope{User: user})
}

// HandleUpdate handles PUT /users/{id} requests.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrUserNotFound)
		return
	}

	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{User: user})
}
