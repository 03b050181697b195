package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roleplay/roleplay-go/internal/service"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	tokenIDKey contextKey = "tokenID"
)

// Authenticator resolves a raw bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Identity, error)
}

// BearerAuth returns middleware that requires a valid Bearer token with an
// open session.
func BearerAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					slog.ErrorContext(r.Context(), "authenticate token", "error", err)
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, identity.UserID)
			ctx = context.WithValue(ctx, tokenIDKey, identity.TokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// TokenIDFromContext extracts the session token ID from the request context.
func TokenIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tokenIDKey).(string)
	return id, ok && id != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	code := "UNAUTHORIZED"
	if status == http.StatusTooManyRequests {
		code = "TOO_MANY_REQUESTS"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"code": code, "status": status, "message": msg})
}
