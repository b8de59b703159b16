// Package api assembles the HTTP surface: the JSON API routes, the health
// endpoint, and the client-app catch-all for everything the router does not
// match.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/cookie"
	"github.com/smartflow-systems/SFS-Backend/internal/handler"
	"github.com/smartflow-systems/SFS-Backend/internal/middleware"
	"github.com/smartflow-systems/SFS-Backend/internal/response"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "sfs_session"

// Deps carries everything the router needs, wired once at startup.
type Deps struct {
	Log     *slog.Logger
	Auth    *auth.Manager
	Cookies *cookie.Manager
	// Webapp serves unmatched non-API requests; chosen per process
	// lifecycle, never per request.
	Webapp http.Handler
	// SecureCookies marks session cookies Secure (production).
	SecureCookies bool
}

// NewRouter builds the full request pipeline: request IDs, API request
// logging, JSON routes with centralized error normalization, and the
// client-app fallback.
func NewRouter(deps Deps) http.Handler {
	h := &handlers{deps: deps}
	ad := handler.NewAdapter(deps.Log)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(deps.Log))

	// Always available, never logged as API traffic, never touches a store.
	r.Get("/health", h.health)

	requireAuth := middleware.RequireAuth(deps.Auth, deps.Cookies, SessionCookie, deps.SecureCookies)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", ad.Handle(h.register))
		r.Post("/login", ad.Handle(h.login))
		r.Post("/logout", ad.Handle(h.logout))
		r.Get("/user", ad.Handle(handler.Chain(h.user, requireAuth)))
	})

	// API routes are matched above; only non-API paths fall through to the
	// client app. Unknown API paths still get a JSON 404 envelope, and a
	// known API path hit with the wrong method gets a JSON 405.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			_ = response.JSONWithStatus(w, response.ErrNotFound, http.StatusNotFound)
			return
		}
		deps.Webapp.ServeHTTP(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			_ = response.JSONWithStatus(w, response.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		deps.Webapp.ServeHTTP(w, r)
	})

	return r
}
