package httpserver

import (
	"net/http"
	"time"

	"doctrack-go/internal/config"
	"doctrack-go/internal/transport/httpserver/handler"
	authmw "doctrack-go/internal/transport/httpserver/middleware"
	"doctrack-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		writes := authmw.NewWriteLimiter(cfg.Limits)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(writes.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Get("/overview", handlers.Overview)

			r.Get("/connections", handlers.ListConnections)
			r.Post("/connections", handlers.SendConnectionRequest)
			r.Get("/connections/pending", handlers.ListPendingConnections)
			r.Post("/connections/{id}/accept", handlers.AcceptConnection)
			r.Post("/connections/{id}/decline", handlers.DeclineConnection)
			r.Delete("/connections/{id}", handlers.RemoveConnection)

			r.Get("/households", handlers.ListHouseholds)
			r.Post("/households", handlers.CreateHousehold)

			r.Post("/shares", handlers.GrantShare)
			r.Delete("/shares/{id}", handlers.RevokeShare)
			r.Get("/shares/with-me", handlers.ListSharedWithMe)
			r.Get("/shares/by-me", handlers.ListSharedByMe)
		})
	})

	return r
}
