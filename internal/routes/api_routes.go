package routes

import (
	"github.com/go-chi/chi/v5"

	"flightdeck/watchtower/internal/api"
	"flightdeck/watchtower/internal/middleware"
)

// RegisterAPIRoutes mounts the versioned API. Everything except session
// creation sits behind bearer token auth.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", handlers.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(deps.Tokens))

			r.Get("/watchlist", handlers.GetWatchlist)
			r.Post("/watchlist", handlers.TrackFlight)
			r.Delete("/watchlist/{flightNumber}/{date}", handlers.UntrackFlight)

			r.Get("/flights/search", handlers.SearchFlight)

			r.Get("/entitlement", handlers.GetEntitlement)
			r.Get("/entitlement/products", handlers.GetProducts)
			r.Post("/entitlement/purchase", handlers.Purchase)
			r.Post("/entitlement/restore", handlers.Restore)
		})
	})
}
