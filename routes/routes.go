package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/codeintervu-admin/app"
	"github.com/upb/codeintervu-admin/handlers"
	"github.com/upb/codeintervu-admin/middleware"
)

// SetupRoutes configures all console routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(deps.Config.Backend.Timeout + 5*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// Session endpoints (public)
	r.Get(deps.Config.Session.LoginPath, handlers.LoginViewHandler(deps))
	r.Post(deps.Config.Session.LoginPath, handlers.LoginHandler(deps))
	r.Post("/logout", handlers.LogoutHandler(deps))
	r.Get("/session", handlers.SessionHandler(deps))

	// Protected views and backend pass-through
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionMiddleware.RequireSession)
		r.Get(deps.Config.Session.HomePath, handlers.HomeViewHandler(deps))
		r.Handle(handlers.ProxyPrefix+"/*", handlers.ProxyHandler(deps))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
