package handler

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/roleplay/roleplay-go/internal/middleware"
	"github.com/roleplay/roleplay-go/internal/service"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Users         *service.UserService
	Sessions      *service.SessionService
	Passwords     *service.PasswordService
	Groups        *service.GroupService
	GroupRequests *service.GroupRequestService
}

// RouterConfig tunes the router's cross-cutting middleware.
type RouterConfig struct {
	AllowedOrigins []string
	// RateLimit is requests per second per IP on the public auth routes.
	RateLimit float64
	RateBurst int
	// TrustedProxies may set the client address via forwarding headers.
	TrustedProxies []netip.Prefix
}

// NewRouter builds the API routes. ctx bounds background work of the
// middleware, such as rate limiter eviction.
func NewRouter(ctx context.Context, svc Services, cfg RouterConfig) http.Handler {
	users := NewUserHandler(svc.Users)
	sessions := NewSessionHandler(svc.Sessions)
	passwords := NewPasswordHandler(svc.Passwords)
	groups := NewGroupHandler(svc.Groups)
	requests := NewGroupRequestHandler(svc.GroupRequests)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse(http.StatusNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse(http.StatusMethodNotAllowed, "method not allowed"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimit, cfg.RateBurst))
		r.Post("/users", users.HandleRegister)
		r.Post("/sessions", sessions.HandleLogin)
		r.Post("/forgot-password", passwords.HandleForgot)
		r.Post("/reset-password", passwords.HandleReset)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(svc.Sessions))

		r.Put("/users/{id}", users.HandleUpdate)
		r.Delete("/sessions", sessions.HandleLogout)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", groups.HandleList)
			r.Post("/", groups.HandleCreate)
			r.Patch("/{id}", groups.HandleUpdate)
			r.Delete("/{id}", groups.HandleDelete)
			r.Delete("/{id}/players/{userId}", groups.HandleRemovePlayer)

			r.Get("/{id}/requests", requests.HandleList)
			r.Post("/{id}/requests", requests.HandleCreate)
			r.Post("/{id}/requests/{requestId}/accept", requests.HandleAccept)
			r.Delete("/{id}/requests/{requestId}", requests.HandleReject)
		})
	})

	return r
}
