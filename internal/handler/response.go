package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roleplay/roleplay-go/internal/service"
	"github.com/roleplay/roleplay-go/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

// ErrorBody is the uniform error payload.
type ErrorBody struct {
	Code    string                  `json:"code"`
	Status  int                     `json:"status"`
	Message string                  `json:"message,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(status int, msg string) ErrorBody {
	return ErrorBody{Code: errorCode(status), Status: status, Message: msg}
}

// errorCode keeps BAD_REQUEST for every client error except the ones with a
// dedicated code.
func errorCode(status int) string {
	switch {
	case status == http.StatusGone:
		return "TOKEN_EXPIRED"
	case status == http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case status == http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case status == http.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	case status >= 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "BAD_REQUEST"
	}
}

// decodeJSON reads a capped JSON body into dst. On failure it writes the
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(http.StatusRequestEntityTooLarge, "request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(http.StatusBadRequest, "invalid request body"))
		return false
	}
	return true
}

// idParam parses a numeric path parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		body := errorResponse(http.StatusUnprocessableEntity, verr.Error())
		body.Errors = verr.Fields
		writeJSON(w, http.StatusUnprocessableEntity, body)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrResetTokenNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRequestExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrAlreadyPlayer):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAccountOwner),
		errors.Is(err, service.ErrNotMasterUpdate),
		errors.Is(err, service.ErrNotMasterDelete),
		errors.Is(err, service.ErrNotMasterPlayers),
		errors.Is(err, service.ErrNotMasterRequest),
		errors.Is(err, service.ErrMasterNotRemovable):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTokenExpired):
		status = http.StatusGone
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse(status, "internal server error"))
		return
	}
	writeJSON(w, status, errorResponse(status, err.Error()))
}
