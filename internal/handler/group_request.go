package handler

import (
	"net/http"
	"strconv"

	"github.com/roleplay/roleplay-go/internal/middleware"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/service"
	"github.com/roleplay/roleplay-go/internal/validation"
)

// GroupRequestHandler handles HTTP requests for join requests.
type GroupRequestHandler struct {
	service *service.GroupRequestService
}

// NewGroupRequestHandler creates a new GroupRequestHandler.
func NewGroupRequestHandler(svc *service.GroupRequestService) *GroupRequestHandler {
	return &GroupRequestHandler{service: svc}
}

// HandleCreate handles POST /groups/{id}/requests requests.
func (h *GroupRequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	groupID, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return
	}

	req, err := h.service.Create(r.Context(), userID, groupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.GroupRequestEnvelope{GroupRequest: req})
}

// HandleList handles GET /groups/{id}/requests?master= requests.
func (h *GroupRequestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	groupID, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return
	}

	raw := r.URL.Query().Get("master")
	if raw == "" {
		writeServiceError(w, r, validation.Field("master", "required", "master is required"))
		return
	}
	master, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeServiceError(w, r, validation.Field("master", "number", "master must be a number"))
		return
	}

	reqs, err := h.service.List(r.Context(), groupID, master)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GroupRequestListResponse{GroupRequests: reqs})
}

// HandleAccept handles POST /groups/{id}/requests/{requestId}/accept requests.
func (h *GroupRequestHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	userID, groupID, requestID, ok := requestParams(w, r)
	if !ok {
		return
	}

	req, err := h.service.Accept(r.Context(), userID, groupID, requestID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GroupRequestEnvelope{GroupRequest: req})
}

// HandleReject handles DELETE /groups/{id}/requests/{requestId} requests.
func (h *GroupRequestHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	userID, groupID, requestID, ok := requestParams(w, r)
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), userID, groupID, requestID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func requestParams(w http.ResponseWriter, r *http.Request) (userID, groupID, requestID int64, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return 0, 0, 0, false
	}
	if groupID, ok = idParam(r, "id"); !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return 0, 0, 0, false
	}
	if requestID, ok = idParam(r, "requestId"); !ok {
		writeServiceError(w, r, service.ErrRequestNotFound)
		return 0, 0, 0, false
	}
	return userID, groupID, requestID, true
}
