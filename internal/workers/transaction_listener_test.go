package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/providers"
	"flightdeck/watchtower/internal/services"
)

// In-memory BlobStore so listener tests don't need a database
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (m *memBlobStore) Save(ctx context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = blob
	return nil
}

func (m *memBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, repositories.ErrBlobNotFound
	}
	return blob, nil
}

type streamProvider struct {
	updates chan providers.TransactionUpdate
}

func (p *streamProvider) ListProducts(ctx context.Context, ids []string) ([]providers.Product, error) {
	return nil, nil
}

func (p *streamProvider) Purchase(ctx context.Context, productID string) (*providers.PurchaseResult, error) {
	return nil, nil
}

func (p *streamProvider) RestorePurchases(ctx context.Context) error {
	return nil
}

func (p *streamProvider) CurrentEntitlements(ctx context.Context) ([]providers.TransactionUpdate, error) {
	return nil, nil
}

func (p *streamProvider) TransactionUpdates(ctx context.Context) <-chan providers.TransactionUpdate {
	return p.updates
}

func newListenerFixture(t *testing.T) (*TransactionListener, *streamProvider, *services.EntitlementService) {
	provider := &streamProvider{updates: make(chan providers.TransactionUpdate, 8)}
	store := services.NewEntitlementStore(newMemBlobStore())
	entitlement := services.NewEntitlementService(context.Background(), store, provider, nil, nil, 1)
	return NewTransactionListener(provider, entitlement), provider, entitlement
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestListener_ForwardsVerifiedEvents(t *testing.T) {
	listener, provider, entitlement := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener.Start(ctx)

	provider.updates <- providers.TransactionUpdate{
		TransactionID: "txn-stream-1",
		ProductID:     constants.ProductYearly,
		Verified:      true,
	}

	waitFor(t, 2*time.Second, entitlement.IsEntitled)
}

func TestListener_StopsOnContextCancel(t *testing.T) {
	listener, _, _ := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	listener.Start(ctx)
	cancel()

	select {
	case <-listener.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Listener did not stop after context cancel")
	}
}

func TestListener_StopsWhenStreamCloses(t *testing.T) {
	listener, provider, entitlement := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener.Start(ctx)

	provider.updates <- providers.TransactionUpdate{
		TransactionID: "txn-final",
		ProductID:     constants.ProductWeeklyTrial,
		Verified:      true,
	}
	close(provider.updates)

	select {
	case <-listener.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Listener did not stop after stream close")
	}

	// The buffered event is drained before the close is observed
	if !entitlement.IsEntitled() {
		t.Error("Expected event delivered before stream close to be applied")
	}
}
