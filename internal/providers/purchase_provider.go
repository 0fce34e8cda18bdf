package providers

import (
	"context"
)

// PurchaseState is the outcome of a purchase attempt as reported by the
// billing gateway
type PurchaseState string

const (
	PurchaseVerified   PurchaseState = "verified"
	PurchaseUnverified PurchaseState = "unverified"
	PurchasePending    PurchaseState = "pending"
	PurchaseCancelled  PurchaseState = "cancelled"
)

// Product is one purchasable subscription tier from the provider catalog
type Product struct {
	ProductID   string
	DisplayName string
	Price       string
	HasTrial    bool
}

// PurchaseResult reports how a purchase attempt ended. TransactionID is only
// meaningful for verified and unverified results.
type PurchaseResult struct {
	State         PurchaseState
	TransactionID string
}

// TransactionUpdate is one event on the provider's transaction stream. The
// stream may redeliver the same transaction ID any number of times.
type TransactionUpdate struct {
	TransactionID string
	ProductID     string
	Verified      bool
}

// PurchaseProvider is the platform purchase capability: catalog, purchase
// initiation, restore, the current verified entitlement set, and an
// unbounded stream of transaction updates
type PurchaseProvider interface {
	// ListProducts fetches catalog entries for the given product IDs
	ListProducts(ctx context.Context, ids []string) ([]Product, error)

	// Purchase initiates a purchase of one product and reports its outcome
	Purchase(ctx context.Context, productID string) (*PurchaseResult, error)

	// RestorePurchases asks the provider to re-sync purchases for this account
	RestorePurchases(ctx context.Context) error

	// CurrentEntitlements returns the provider's ground-truth set of
	// currently-entitling transactions
	CurrentEntitlements(ctx context.Context) ([]TransactionUpdate, error)

	// TransactionUpdates returns a stream of transaction events. The channel
	// is closed when ctx is cancelled.
	TransactionUpdates(ctx context.Context) <-chan TransactionUpdate
}
