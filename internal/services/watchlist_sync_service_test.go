package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightdeck/watchtower/internal/common"
	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/models/dtos"
	"flightdeck/watchtower/internal/models/entities"
	"flightdeck/watchtower/internal/providers"
)

// Mock FlightLookupAPI
type mockFlightLookup struct {
	lookupFunc func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error)
}

func (m *mockFlightLookup) Lookup(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
	return m.lookupFunc(ctx, flightNumber, date)
}

func recordFor(flightNumber, date, status string) dtos.FlightRecord {
	scheduled, _ := time.Parse("2006-01-02", date)
	return dtos.FlightRecord{
		FlightNumber: flightNumber,
		Airline:      "Test Air",
		Status:       status,
		Departure: dtos.FlightAirport{
			Code:  "KJFK",
			Times: dtos.FlightAirportTimes{ScheduledLocal: scheduled.Add(9 * time.Hour)},
		},
		Arrival: dtos.FlightAirport{
			Code: "KLAX",
		},
		LastUpdated: time.Now().UTC(),
	}
}

func newSyncService(t *testing.T, lookup providers.FlightLookupAPI) *WatchlistSyncService {
	blobs := setupTestBlobs(t)
	store := NewWatchlistStore(context.Background(), blobs)
	return NewWatchlistSyncService(store, lookup, nil, nil, 8, time.Minute)
}

func TestRefreshAll_PreservesInputOrderUnderOutOfOrderCompletion(t *testing.T) {
	// Earlier refs finish last: delays decrease with index
	refs := []entities.TrackedFlightRef{
		entities.NewTrackedFlightRef("AA100", "2025-06-01"),
		entities.NewTrackedFlightRef("BB200", "2025-06-01"),
		entities.NewTrackedFlightRef("CC300", "2025-06-01"),
		entities.NewTrackedFlightRef("DD400", "2025-06-01"),
	}

	delays := map[string]time.Duration{
		"AA100": 80 * time.Millisecond,
		"BB200": 40 * time.Millisecond,
		"CC300": 20 * time.Millisecond,
		"DD400": 0,
	}

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			time.Sleep(delays[flightNumber])
			return []dtos.FlightRecord{recordFor(flightNumber, date, "Scheduled")}, nil
		},
	}

	svc := newSyncService(t, lookup)
	entries := svc.RefreshAll(context.Background(), refs)

	if len(entries) != len(refs) {
		t.Fatalf("Expected %d entries, got %d", len(refs), len(entries))
	}
	for i, entry := range entries {
		if entry.Ref.Key() != refs[i].Key() {
			t.Errorf("Entry %d: expected ref %s, got %s", i, refs[i].Key(), entry.Ref.Key())
		}
		if !entry.Resolved() {
			t.Errorf("Entry %d: expected resolved, got errCode %s", i, entry.ErrCode)
		}
		if entry.Snapshot.FlightNumber != refs[i].FlightNumber {
			t.Errorf("Entry %d: snapshot for %s paired with ref %s", i, entry.Snapshot.FlightNumber, refs[i].FlightNumber)
		}
	}
}

func TestRefreshAll_WallClockBoundedBySlowestLookup(t *testing.T) {
	const perLookup = 80 * time.Millisecond

	refs := []entities.TrackedFlightRef{
		entities.NewTrackedFlightRef("AA100", "2025-06-01"),
		entities.NewTrackedFlightRef("BB200", "2025-06-01"),
		entities.NewTrackedFlightRef("CC300", "2025-06-01"),
		entities.NewTrackedFlightRef("DD400", "2025-06-01"),
	}

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			time.Sleep(perLookup)
			return []dtos.FlightRecord{recordFor(flightNumber, date, "Scheduled")}, nil
		},
	}

	svc := newSyncService(t, lookup)

	start := time.Now()
	entries := svc.RefreshAll(context.Background(), refs)
	elapsed := time.Since(start)

	if len(entries) != len(refs) {
		t.Fatalf("Expected %d entries, got %d", len(refs), len(entries))
	}
	// Sequential execution would take 4x the per-lookup delay; concurrent
	// fan-out finishes in roughly one. Allow generous slack for slow CI.
	if limit := time.Duration(len(refs)) * perLookup * 3 / 4; elapsed >= limit {
		t.Errorf("Batch took %v, expected under %v with concurrent lookups", elapsed, limit)
	}
}

func TestRefreshAll_OneFailureDoesNotAbortBatch(t *testing.T) {
	refs := []entities.TrackedFlightRef{
		entities.NewTrackedFlightRef("AA100", "2025-06-01"),
		entities.NewTrackedFlightRef("XX999", "2025-06-01"),
		entities.NewTrackedFlightRef("CC300", "2025-06-01"),
	}

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			if flightNumber == "XX999" {
				return nil, errors.New("connection refused")
			}
			return []dtos.FlightRecord{recordFor(flightNumber, date, "Departed")}, nil
		},
	}

	svc := newSyncService(t, lookup)
	entries := svc.RefreshAll(context.Background(), refs)

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if !entries[0].Resolved() || !entries[2].Resolved() {
		t.Error("Expected surrounding entries to resolve")
	}
	if entries[1].Resolved() {
		t.Error("Expected middle entry to fail")
	}
	if entries[1].ErrCode != constants.ErrCodeLookupTransient {
		t.Errorf("Expected transient error code, got %s", entries[1].ErrCode)
	}
}

func TestRefreshAll_Scenario_DepartedAndNotFound(t *testing.T) {
	refs := []entities.TrackedFlightRef{
		entities.NewTrackedFlightRef("AA100", "2025-06-01"),
		entities.NewTrackedFlightRef("BB200", "2025-06-02"),
	}

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			if flightNumber == "AA100" {
				return []dtos.FlightRecord{recordFor("AA100", "2025-06-01", "Departed")}, nil
			}
			return []dtos.FlightRecord{}, nil
		},
	}

	svc := newSyncService(t, lookup)
	entries := svc.RefreshAll(context.Background(), refs)

	if !entries[0].Resolved() {
		t.Fatalf("Expected AA100 resolved, got %s", entries[0].ErrCode)
	}
	if entries[0].Snapshot.Status != constants.StatusDeparted {
		t.Errorf("Expected DEPARTED, got %s", entries[0].Snapshot.Status)
	}
	if entries[1].ErrCode != constants.ErrCodeFlightNotFound {
		t.Errorf("Expected FLIGHT_NOT_FOUND for BB200, got %s", entries[1].ErrCode)
	}
}

func TestResolve_PinsRecordMatchingDate(t *testing.T) {
	ref := entities.NewTrackedFlightRef("AA100", "2025-06-02")

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			// Codeshare ambiguity: two legs on different dates
			return []dtos.FlightRecord{
				recordFor("AA100", "2025-06-01", "Arrived"),
				recordFor("AA100", "2025-06-02", "Scheduled"),
			}, nil
		},
	}

	svc := newSyncService(t, lookup)
	entry := svc.Resolve(context.Background(), ref)

	if !entry.Resolved() {
		t.Fatalf("Expected resolution, got %s", entry.ErrCode)
	}
	if entry.Snapshot.Status != constants.StatusScheduled {
		t.Errorf("Expected the 2025-06-02 leg pinned, got status %s", entry.Snapshot.Status)
	}
}

func TestResolve_NoDateMatchIsNotFound(t *testing.T) {
	ref := entities.NewTrackedFlightRef("AA100", "2025-06-03")

	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			return []dtos.FlightRecord{recordFor("AA100", "2025-06-01", "Scheduled")}, nil
		},
	}

	svc := newSyncService(t, lookup)
	entry := svc.Resolve(context.Background(), ref)

	if entry.ErrCode != constants.ErrCodeFlightNotFound {
		t.Errorf("Expected FLIGHT_NOT_FOUND, got %s", entry.ErrCode)
	}
}

func TestResolve_ServesFromSnapshotCache(t *testing.T) {
	ref := entities.NewTrackedFlightRef("AA100", "2025-06-01")

	calls := 0
	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			calls++
			return []dtos.FlightRecord{recordFor(flightNumber, date, "Departed")}, nil
		},
	}

	blobs := setupTestBlobs(t)
	store := NewWatchlistStore(context.Background(), blobs)
	cache := common.NewCacheService(time.Minute, time.Minute)
	svc := NewWatchlistSyncService(store, lookup, cache, nil, 8, time.Minute)

	svc.Resolve(context.Background(), ref)
	svc.Resolve(context.Background(), ref)

	if calls != 1 {
		t.Errorf("Expected 1 upstream call with a warm cache, got %d", calls)
	}
}

func TestRemove_EvictsCachedSnapshot(t *testing.T) {
	ref := entities.NewTrackedFlightRef("AA100", "2025-06-01")

	calls := 0
	lookup := &mockFlightLookup{
		lookupFunc: func(ctx context.Context, flightNumber, date string) ([]dtos.FlightRecord, error) {
			calls++
			return []dtos.FlightRecord{recordFor(flightNumber, date, "Departed")}, nil
		},
	}

	blobs := setupTestBlobs(t)
	store := NewWatchlistStore(context.Background(), blobs)
	cache := common.NewCacheService(time.Minute, time.Minute)
	svc := NewWatchlistSyncService(store, lookup, cache, nil, 8, time.Minute)

	ctx := context.Background()
	entry := svc.Resolve(ctx, ref)
	if _, err := svc.Add(ctx, ref, entry.Snapshot); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := svc.Remove(ctx, ref.FlightNumber, ref.Date); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	svc.Resolve(ctx, ref)
	if calls != 2 {
		t.Errorf("Expected cache eviction to force a second upstream call, got %d calls", calls)
	}
}
