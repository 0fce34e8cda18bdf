package api

import (
	"context"

	"flightdeck/watchtower/internal/common"
	"flightdeck/watchtower/internal/config"
	"flightdeck/watchtower/internal/db"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/metrics"
	"flightdeck/watchtower/internal/providers"
	"flightdeck/watchtower/internal/services"
)

// Dependencies is the process-scoped object graph the handlers and workers
// are wired from. Constructed once at startup, injected everywhere; no
// ambient globals beyond the DB handles.
type Dependencies struct {
	Config           *config.Config
	Metrics          *metrics.MetricsRegistry
	Cache            common.CacheInterface
	Tokens           *common.TokenService
	FlightLookup     providers.FlightLookupAPI
	PurchaseProvider providers.PurchaseProvider
	Watchlist        *services.WatchlistSyncService
	Entitlement      *services.EntitlementService
}

// InitDependencies builds the full graph. Requires db.InitPostgres and
// db.InitPostgresORM to have run.
func InitDependencies(ctx context.Context, cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	var cache common.CacheInterface
	if cfg.CacheBackend == "redis" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis cache unavailable, falling back to in-memory", "error", err.Error())
			cache = common.NewCacheService(cfg.SnapshotTTL, 2*cfg.SnapshotTTL)
		} else {
			cache = redisCache
		}
	} else {
		cache = common.NewCacheService(cfg.SnapshotTTL, 2*cfg.SnapshotTTL)
	}

	blobs := repositories.NewStateBlobRepository(db.PgDB)

	audit, err := repositories.NewEntitlementAuditRepository(db.DB)
	if err != nil {
		return nil, err
	}

	flightLookup := providers.NewFlightLookupProvider(cfg)
	purchaseProvider := providers.NewBillingAPIProvider(cfg)

	watchlistStore := services.NewWatchlistStore(ctx, blobs)
	watchlist := services.NewWatchlistSyncService(
		watchlistStore,
		flightLookup,
		cache,
		metricsReg,
		cfg.RefreshConcurrency,
		cfg.SnapshotTTL,
	)

	entitlementStore := services.NewEntitlementStore(blobs)
	entitlement := services.NewEntitlementService(
		ctx,
		entitlementStore,
		purchaseProvider,
		audit,
		metricsReg,
		cfg.FreeTierQuota,
	)

	// Provider truth wins over whatever was persisted; a transport failure
	// here keeps the stale state and is not fatal
	if err := entitlement.Reconcile(ctx); err != nil {
		logging.Warn("Entitlement reconciliation failed at startup", "error", err.Error())
	}

	tokens := common.NewTokenService([]byte(cfg.TokenSecret), cfg.TokenLifetime)

	return &Dependencies{
		Config:           cfg,
		Metrics:          metricsReg,
		Cache:            cache,
		Tokens:           tokens,
		FlightLookup:     flightLookup,
		PurchaseProvider: purchaseProvider,
		Watchlist:        watchlist,
		Entitlement:      entitlement,
	}, nil
}
