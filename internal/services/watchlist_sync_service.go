package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"flightdeck/watchtower/internal/common"
	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/metrics"
	"flightdeck/watchtower/internal/models/dtos"
	"flightdeck/watchtower/internal/models/entities"
	"flightdeck/watchtower/internal/providers"
)

// WatchlistSyncService resolves tracked flight refs into watchlist entries.
// A slow or failing lookup for one flight never blocks or corrupts the
// others; results always come back in input order.
type WatchlistSyncService struct {
	store       *WatchlistStore
	lookup      providers.FlightLookupAPI
	cache       common.CacheInterface
	metrics     *metrics.MetricsRegistry
	concurrency int64
	snapshotTTL time.Duration
}

// NewWatchlistSyncService wires the sync engine. metricsReg may be nil.
func NewWatchlistSyncService(
	store *WatchlistStore,
	lookup providers.FlightLookupAPI,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
	concurrency int64,
	snapshotTTL time.Duration,
) *WatchlistSyncService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WatchlistSyncService{
		store:       store,
		lookup:      lookup,
		cache:       cache,
		metrics:     metricsReg,
		concurrency: concurrency,
		snapshotTTL: snapshotTTL,
	}
}

// Store exposes the backing ref store
func (svc *WatchlistSyncService) Store() *WatchlistStore {
	return svc.store
}

// RefreshAll resolves every ref concurrently, bounded by the configured
// fan-out. entries[i] always corresponds to refs[i] no matter which lookups
// finish first. A failed item becomes an error entry; the batch never fails
// as a whole and there are no retries.
func (svc *WatchlistSyncService) RefreshAll(ctx context.Context, refs []entities.TrackedFlightRef) []entities.WatchlistEntry {
	start := time.Now()
	entries := make([]entities.WatchlistEntry, len(refs))

	sem := semaphore.NewWeighted(svc.concurrency)
	var wg sync.WaitGroup

	for i := range refs {
		wg.Add(1)
		go func(idx int, ref entities.TrackedFlightRef) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				entries[idx] = entities.WatchlistEntry{Ref: ref, ErrCode: constants.ErrCodeLookupTransient}
				return
			}
			defer sem.Release(1)

			entries[idx] = svc.Resolve(ctx, ref)
		}(i, refs[i])
	}
	wg.Wait()

	if svc.metrics != nil {
		svc.metrics.RefreshBatchesTotal.Inc()
		svc.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		for _, e := range entries {
			if e.ErrCode != "" {
				svc.metrics.LookupFailuresTotal.WithLabelValues(e.ErrCode).Inc()
			}
		}
	}

	return entries
}

// Entries refreshes the full stored watchlist
func (svc *WatchlistSyncService) Entries(ctx context.Context) []entities.WatchlistEntry {
	return svc.RefreshAll(ctx, svc.store.Refs())
}

// Resolve fetches the snapshot for one ref, serving from the snapshot cache
// when fresh. Failures fold into an error entry carrying the taxonomy code.
func (svc *WatchlistSyncService) Resolve(ctx context.Context, ref entities.TrackedFlightRef) entities.WatchlistEntry {
	cacheKey := string(constants.CachePrefixSnapshot) + ref.Key()

	if svc.cache != nil {
		if val, found := svc.cache.Get(cacheKey); found {
			if snap := snapshotFromCache(val); snap != nil {
				if svc.metrics != nil {
					svc.metrics.SnapshotCacheHits.Inc()
				}
				return entities.WatchlistEntry{Ref: ref, Snapshot: snap}
			}
		}
		if svc.metrics != nil {
			svc.metrics.SnapshotCacheMisses.Inc()
		}
	}

	records, err := svc.lookup.Lookup(ctx, ref.FlightNumber, ref.Date)
	if err != nil {
		code := constants.ErrCodeLookupTransient
		if providers.IsNotFound(err) {
			code = constants.ErrCodeFlightNotFound
		}
		logging.WithRef(ref.FlightNumber, ref.Date).Warnw("Flight lookup failed",
			"code", providers.ErrorCode(err),
			"error", err.Error(),
		)
		return entities.WatchlistEntry{Ref: ref, ErrCode: code}
	}

	record := pinRecord(records, ref.Date)
	if record == nil {
		return entities.WatchlistEntry{Ref: ref, ErrCode: constants.ErrCodeFlightNotFound}
	}

	snap := snapshotFromRecord(*record)
	if svc.cache != nil {
		svc.cache.Set(cacheKey, snap, svc.snapshotTTL)
	}

	return entities.WatchlistEntry{Ref: ref, Snapshot: snap}
}

// Add stores a ref unless already tracked and primes the snapshot cache.
// Returns whether an insertion occurred; adding a duplicate is a no-op
// success.
func (svc *WatchlistSyncService) Add(ctx context.Context, ref entities.TrackedFlightRef, snapshot *entities.FlightSnapshot) (bool, error) {
	inserted, err := svc.store.Add(ctx, ref)
	if err != nil {
		return false, err
	}

	if snapshot != nil && svc.cache != nil {
		svc.cache.Set(string(constants.CachePrefixSnapshot)+ref.Key(), snapshot, svc.snapshotTTL)
	}
	if svc.metrics != nil {
		svc.metrics.WatchlistSize.Set(float64(svc.store.Len()))
	}
	return inserted, nil
}

// Remove drops a ref by identity and evicts its cached snapshot
func (svc *WatchlistSyncService) Remove(ctx context.Context, flightNumber, date string) (bool, error) {
	removed, err := svc.store.Remove(ctx, flightNumber, date)
	if err != nil {
		return false, err
	}

	if svc.cache != nil {
		svc.cache.Delete(string(constants.CachePrefixSnapshot) + flightNumber + ":" + date)
	}
	if svc.metrics != nil {
		svc.metrics.WatchlistSize.Set(float64(svc.store.Len()))
	}
	return removed, nil
}

// pinRecord picks the single authoritative record: the one whose scheduled
// local departure date equals the ref's date. None matching means not found.
func pinRecord(records []dtos.FlightRecord, date string) *dtos.FlightRecord {
	for i := range records {
		if records[i].Departure.Times.ScheduledLocal.Format("2006-01-02") == date {
			return &records[i]
		}
	}
	return nil
}

// snapshotFromRecord maps the upstream wire record onto the snapshot value
// type, normalizing the status onto the closed set
func snapshotFromRecord(rec dtos.FlightRecord) *entities.FlightSnapshot {
	snap := &entities.FlightSnapshot{
		FlightNumber: rec.FlightNumber,
		Airline:      rec.Airline,
		Status:       constants.NormalizeFlightStatus(rec.Status),
		Origin:       endpointFromAirport(rec.Departure),
		Destination:  endpointFromAirport(rec.Arrival),
		Aircraft:     rec.Aircraft,
		DistanceNm:   rec.DistanceNm,
		UpdatedAt:    rec.LastUpdated,
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	if rec.Position != nil {
		snap.Position = &entities.LivePosition{
			Latitude:    rec.Position.Latitude,
			Longitude:   rec.Position.Longitude,
			Altitude:    rec.Position.Altitude,
			GroundSpeed: rec.Position.GroundSpeed,
			Track:       rec.Position.Track,
			ReportedAt:  rec.Position.Date,
		}
	}
	return snap
}

func endpointFromAirport(ap dtos.FlightAirport) entities.RouteEndpoint {
	return entities.RouteEndpoint{
		Airport:        ap.Code,
		City:           ap.City,
		Terminal:       ap.Terminal,
		Gate:           ap.Gate,
		ScheduledLocal: ap.Times.ScheduledLocal,
		ScheduledUTC:   ap.Times.ScheduledUTC,
		RevisedLocal:   ap.Times.RevisedLocal,
		RevisedUTC:     ap.Times.RevisedUTC,
		PredictedUTC:   ap.Times.PredictedUTC,
		RunwayUTC:      ap.Times.RunwayUTC,
	}
}

// snapshotFromCache recovers a snapshot from either cache backend: the
// in-memory cache stores the pointer, Redis stores JSON bytes
func snapshotFromCache(val interface{}) *entities.FlightSnapshot {
	switch v := val.(type) {
	case *entities.FlightSnapshot:
		return v
	case []byte:
		var snap entities.FlightSnapshot
		if err := json.Unmarshal(v, &snap); err != nil {
			return nil
		}
		return &snap
	default:
		return nil
	}
}
