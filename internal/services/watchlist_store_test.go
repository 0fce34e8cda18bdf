package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/models/entities"
	gormModels "flightdeck/watchtower/internal/models/gorm"
)

// Setup test database
func setupTestBlobs(t *testing.T) *repositories.StateBlobRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.StateBlob{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return repositories.NewStateBlobRepository(db)
}

func TestWatchlistStore_AddIsIdempotent(t *testing.T) {
	blobs := setupTestBlobs(t)
	ctx := context.Background()
	store := NewWatchlistStore(ctx, blobs)

	ref := entities.NewTrackedFlightRef("AA123", "2025-01-01")

	inserted, err := store.Add(ctx, ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !inserted {
		t.Error("Expected first add to insert")
	}

	// Same identity, different surrogate ID
	dup := entities.NewTrackedFlightRef("AA123", "2025-01-01")
	inserted, err = store.Add(ctx, dup)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inserted {
		t.Error("Expected duplicate add to be a no-op")
	}

	if store.Len() != 1 {
		t.Errorf("Expected 1 stored ref, got %d", store.Len())
	}
}

func TestWatchlistStore_PersistsAcrossReload(t *testing.T) {
	blobs := setupTestBlobs(t)
	ctx := context.Background()

	store := NewWatchlistStore(ctx, blobs)
	if _, err := store.Add(ctx, entities.NewTrackedFlightRef("AA100", "2025-06-01")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, entities.NewTrackedFlightRef("BB200", "2025-06-02")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reloaded := NewWatchlistStore(ctx, blobs)
	refs := reloaded.Refs()
	if len(refs) != 2 {
		t.Fatalf("Expected 2 refs after reload, got %d", len(refs))
	}
	if refs[0].FlightNumber != "AA100" || refs[1].FlightNumber != "BB200" {
		t.Errorf("Expected stored order preserved, got %v", refs)
	}
}

func TestWatchlistStore_RemoveByIdentity(t *testing.T) {
	blobs := setupTestBlobs(t)
	ctx := context.Background()
	store := NewWatchlistStore(ctx, blobs)

	store.Add(ctx, entities.NewTrackedFlightRef("AA100", "2025-06-01"))
	store.Add(ctx, entities.NewTrackedFlightRef("BB200", "2025-06-02"))

	removed, err := store.Remove(ctx, "AA100", "2025-06-01")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Error("Expected removal")
	}

	refs := store.Refs()
	if len(refs) != 1 || refs[0].FlightNumber != "BB200" {
		t.Errorf("Expected only BB200 left, got %v", refs)
	}

	removed, err = store.Remove(ctx, "AA100", "2025-06-01")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Error("Expected second removal to be a no-op")
	}
}

func TestWatchlistStore_CorruptBlobDegradesToEmpty(t *testing.T) {
	blobs := setupTestBlobs(t)
	ctx := context.Background()

	if err := blobs.Save(ctx, string(constants.StoreKeyWatchlist), []byte("{not json")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store := NewWatchlistStore(ctx, blobs)
	if store.Len() != 0 {
		t.Errorf("Expected empty store from corrupt blob, got %d refs", store.Len())
	}
}
