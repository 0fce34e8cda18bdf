package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/models/entities"
)

// EntitlementStore persists the best-known entitlement state under a stable
// key. It is owned by the entitlement service; nothing else writes it.
type EntitlementStore struct {
	blobs repositories.BlobStore
}

// NewEntitlementStore creates the store
func NewEntitlementStore(blobs repositories.BlobStore) *EntitlementStore {
	return &EntitlementStore{blobs: blobs}
}

// Load returns the persisted state. A missing or corrupt blob degrades to
// the first-run zero state.
func (s *EntitlementStore) Load(ctx context.Context) entities.EntitlementState {
	blob, err := s.blobs.Load(ctx, string(constants.StoreKeyEntitlement))
	if err != nil {
		if !errors.Is(err, repositories.ErrBlobNotFound) {
			logging.Warn("Failed to load entitlement state, using defaults", "error", err.Error())
		}
		return entities.NewEntitlementState()
	}

	var state entities.EntitlementState
	if err := json.Unmarshal(blob, &state); err != nil {
		logging.Warn("Corrupt entitlement blob, using defaults", "error", err.Error())
		return entities.NewEntitlementState()
	}
	if state.KnownTransactionIDs == nil {
		state.KnownTransactionIDs = map[string]bool{}
	}
	return state
}

// Save persists the state
func (s *EntitlementStore) Save(ctx context.Context, state entities.EntitlementState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal entitlement state: %w", err)
	}
	return s.blobs.Save(ctx, string(constants.StoreKeyEntitlement), blob)
}
