package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/models/entities"
)

// WatchlistStore owns the durable ordered list of tracked flight refs.
// All mutation funnels through its methods; refs are persisted as a JSON
// array under a stable key after every change.
type WatchlistStore struct {
	mu    sync.Mutex
	blobs repositories.BlobStore
	refs  []entities.TrackedFlightRef
}

// NewWatchlistStore creates the store and loads persisted refs. A missing or
// corrupt blob degrades to an empty list rather than failing startup.
func NewWatchlistStore(ctx context.Context, blobs repositories.BlobStore) *WatchlistStore {
	s := &WatchlistStore{blobs: blobs}

	blob, err := blobs.Load(ctx, string(constants.StoreKeyWatchlist))
	if err != nil {
		if !errors.Is(err, repositories.ErrBlobNotFound) {
			logging.Warn("Failed to load watchlist, starting empty", "error", err.Error())
		}
		return s
	}

	if err := json.Unmarshal(blob, &s.refs); err != nil {
		logging.Warn("Corrupt watchlist blob, starting empty", "error", err.Error())
		s.refs = nil
	}
	return s
}

// Refs returns a snapshot copy of the tracked refs in stored order
func (s *WatchlistStore) Refs() []entities.TrackedFlightRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.TrackedFlightRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// Len returns the number of tracked refs
func (s *WatchlistStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refs)
}

// Add appends a ref unless its (flightNumber, date) identity is already
// present. Returns whether an insertion occurred; a duplicate add is a
// no-op success.
func (s *WatchlistStore) Add(ctx context.Context, ref entities.TrackedFlightRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.refs {
		if existing.Key() == ref.Key() {
			return false, nil
		}
	}

	s.refs = append(s.refs, ref)
	if err := s.persistLocked(ctx); err != nil {
		s.refs = s.refs[:len(s.refs)-1]
		return false, err
	}
	return true, nil
}

// Remove deletes the ref with the given identity. Returns whether a ref was
// removed.
func (s *WatchlistStore) Remove(ctx context.Context, flightNumber, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := flightNumber + ":" + date
	idx := -1
	for i, existing := range s.refs {
		if existing.Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	removed := s.refs[idx]
	s.refs = append(s.refs[:idx], s.refs[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		// Reinsert at the original position so memory matches disk
		s.refs = append(s.refs[:idx], append([]entities.TrackedFlightRef{removed}, s.refs[idx:]...)...)
		return false, err
	}
	return true, nil
}

// Clear removes every tracked ref
func (s *WatchlistStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.refs
	s.refs = nil
	if err := s.persistLocked(ctx); err != nil {
		s.refs = old
		return err
	}
	return nil
}

func (s *WatchlistStore) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.refs)
	if err != nil {
		return fmt.Errorf("failed to marshal watchlist: %w", err)
	}
	return s.blobs.Save(ctx, string(constants.StoreKeyWatchlist), blob)
}
