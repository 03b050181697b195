package handler

import (
	"net/http"
	"strconv"

	"github.com/roleplay/roleplay-go/internal/middleware"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/service"
	"github.com/roleplay/roleplay-go/internal/validation"
)

// GroupHandler handles HTTP requests for groups and their players.
type GroupHandler struct {
	service *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{service: svc}
}

// HandleCreate handles POST /groups requests.
func (h *GroupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	var req model.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.GroupEnvelope{Group: group})
}

// HandleUpdate handles PATCH /groups/{id} requests.
func (h *GroupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return
	}

	var req model.UpdateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GroupEnvelope{Group: group})
}

// HandleDelete handles DELETE /groups/{id} requests.
func (h *GroupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleList handles GET /groups?user=&text=&page=&perPage= requests.
func (h *GroupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.GroupFilter{Text: q.Get("text")}

	if v := q.Get("user"); v != "" {
		user, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeServiceError(w, r, validation.Field("user", "number", "user must be a number"))
			return
		}
		filter.User = &user
	}

	var err error
	if filter.Page, err = intQuery(q.Get("page")); err != nil {
		writeServiceError(w, r, validation.Field("page", "number", "page must be a number"))
		return
	}
	if filter.PerPage, err = intQuery(q.Get("perPage")); err != nil {
		writeServiceError(w, r, validation.Field("perPage", "number", "perPage must be a number"))
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GroupListResponse{Groups: page})
}

// HandleRemovePlayer handles DELETE /groups/{id}/players/{userId} requests.
func (h *GroupHandler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(http.StatusUnauthorized, "unauthorized"))
		return
	}

	groupID, ok := idParam(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrGroupNotFound)
		return
	}
	userID, ok := idParam(r, "userId")
	if !ok {
		writeServiceError(w, r, service.ErrUserNotFound)
		return
	}

	if err := h.service.RemovePlayer(r.Context(), actingUserID, groupID, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// intQuery parses an optional integer query value. Empty means zero.
func intQuery(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
