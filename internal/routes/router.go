package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"flightdeck/watchtower/internal/api"
	"flightdeck/watchtower/internal/config"
	"flightdeck/watchtower/internal/db"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/metrics"
	"flightdeck/watchtower/internal/middleware"
	"flightdeck/watchtower/internal/workers"
)

// RegisterRoutes builds the router and starts the background transaction
// listener. The listener stops when ctx is cancelled.
func RegisterRoutes(ctx context.Context, cfg *config.Config, upSince time.Time) (http.Handler, *workers.TransactionListener, error) {
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(ctx, cfg, metricsReg)
	if err != nil {
		return nil, nil, err
	}

	handlers := api.NewHandlers(deps)
	RegisterAPIRoutes(r, deps, handlers)

	listener := workers.NewTransactionListener(deps.PurchaseProvider, deps.Entitlement)
	listener.Start(ctx)

	logging.Info("Router initialized",
		"refresh_concurrency", cfg.RefreshConcurrency,
		"free_tier_quota", cfg.FreeTierQuota,
		"cache_backend", cfg.CacheBackend,
	)

	return r, listener, nil
}
