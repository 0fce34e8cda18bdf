package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/db/repositories"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/metrics"
	"flightdeck/watchtower/internal/models/entities"
	"flightdeck/watchtower/internal/providers"
)

// Sentinel errors the purchase/restore callers branch on
var (
	ErrTransactionUnverified = errors.New(constants.GetErrorMessage(constants.ErrCodeTransactionUnverified))
	ErrPurchasePending       = errors.New(constants.GetErrorMessage(constants.ErrCodePurchasePending))
	ErrNothingToRestore      = errors.New(constants.GetErrorMessage(constants.ErrCodeNothingToRestore))
	ErrUnknownProduct        = errors.New(constants.GetErrorMessage(constants.ErrCodeUnknownProduct))
)

// EntitlementService is the state machine over the user's subscription
// entitlement and free-tier quota. All read-modify-write of the state is
// serialized behind one mutex; the provider is never called while the lock
// is held. Once verified true, entitlement is monotonic for the life of the
// process; revocation only surfaces through Reconcile at startup.
type EntitlementService struct {
	mu       sync.Mutex
	store    *EntitlementStore
	provider providers.PurchaseProvider
	audit    repositories.AuditLog
	metrics  *metrics.MetricsRegistry
	quota    int
	state    entities.EntitlementState
}

// NewEntitlementService loads persisted state and wires the engine.
// audit and metricsReg may be nil.
func NewEntitlementService(
	ctx context.Context,
	store *EntitlementStore,
	provider providers.PurchaseProvider,
	audit repositories.AuditLog,
	metricsReg *metrics.MetricsRegistry,
	quota int,
) *EntitlementService {
	return &EntitlementService{
		store:    store,
		provider: provider,
		audit:    audit,
		metrics:  metricsReg,
		quota:    quota,
		state:    store.Load(ctx),
	}
}

// IsEntitled reports whether the user currently has paid access
func (svc *EntitlementService) IsEntitled() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.state.HasActiveEntitlement
}

// RemainingFreeActions returns how many gated actions a non-entitled user
// may still perform
func (svc *EntitlementService) RemainingFreeActions() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	remaining := svc.quota - svc.state.FreeActionsUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// State returns a copy of the current entitlement state
func (svc *EntitlementService) State() entities.EntitlementState {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.state.Clone()
}

// Reconcile aligns local state with the provider's current entitlement set.
// Provider truth wins over stale persisted state in both directions; this is
// the only path that may downgrade entitlement.
func (svc *EntitlementService) Reconcile(ctx context.Context) error {
	current, err := svc.provider.CurrentEntitlements(ctx)
	if err != nil {
		// Keep the persisted state; the caller decides whether to log or fail
		return fmt.Errorf("failed to fetch current entitlements: %w", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	remoteEntitled := false
	for _, txn := range current {
		if txn.Verified && constants.IsRecognizedProduct(txn.ProductID) {
			remoteEntitled = true
			svc.applyVerifiedLocked(ctx, txn.TransactionID, txn.ProductID, "reconcile")
		}
	}

	if !remoteEntitled && svc.state.HasActiveEntitlement {
		svc.state.HasActiveEntitlement = false
		svc.persistLocked(ctx)
		svc.auditLocked(ctx, "", "", "reconcile_revoked", false)
		svc.countTransition("revoked")
		logging.Info("Entitlement revoked during reconciliation")
	}

	return nil
}

// Purchase initiates a purchase of the given product. Already entitled is a
// no-op success; user cancellation is silent; pending and unverified results
// surface as their sentinel errors and never grant entitlement.
func (svc *EntitlementService) Purchase(ctx context.Context, productID string) error {
	if !constants.IsRecognizedProduct(productID) {
		return ErrUnknownProduct
	}

	svc.mu.Lock()
	entitled := svc.state.HasActiveEntitlement
	svc.mu.Unlock()
	if entitled {
		return nil
	}

	result, err := svc.provider.Purchase(ctx, productID)
	if err != nil {
		return fmt.Errorf("purchase failed: %w", err)
	}

	switch result.State {
	case providers.PurchaseCancelled:
		// User backed out; not a failure
		return nil
	case providers.PurchasePending:
		svc.auditUnlocked(ctx, result.TransactionID, productID, "purchase_pending", false)
		return ErrPurchasePending
	case providers.PurchaseUnverified:
		svc.auditUnlocked(ctx, result.TransactionID, productID, "purchase_unverified", false)
		return ErrTransactionUnverified
	case providers.PurchaseVerified:
		svc.mu.Lock()
		defer svc.mu.Unlock()
		svc.applyVerifiedLocked(ctx, result.TransactionID, productID, "purchase")
		return nil
	default:
		return fmt.Errorf("unexpected purchase state %q", result.State)
	}
}

// RestorePurchases re-syncs with the provider. An empty remote entitlement
// set surfaces as ErrNothingToRestore, distinct from transport errors.
func (svc *EntitlementService) RestorePurchases(ctx context.Context) error {
	if err := svc.provider.RestorePurchases(ctx); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	current, err := svc.provider.CurrentEntitlements(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch restored entitlements: %w", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	restored := false
	for _, txn := range current {
		if txn.Verified && constants.IsRecognizedProduct(txn.ProductID) {
			svc.applyVerifiedLocked(ctx, txn.TransactionID, txn.ProductID, "restore")
			restored = true
		}
	}

	if !restored {
		return ErrNothingToRestore
	}
	return nil
}

// ConsumeFreeAction reports whether the caller may perform one gated action.
// Entitled users always pass without counting. Non-entitled users pass while
// the quota lasts; each pass increments the counter and persists it.
func (svc *EntitlementService) ConsumeFreeAction(ctx context.Context) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state.HasActiveEntitlement {
		return true
	}

	if svc.state.FreeActionsUsed >= svc.quota {
		return false
	}

	svc.state.FreeActionsUsed++
	svc.persistLocked(ctx)
	if svc.metrics != nil {
		svc.metrics.FreeActionsConsumedTotal.Inc()
	}
	return true
}

// RefundFreeAction returns one previously consumed free action. Callers use
// it when a gated action passed the gate but ended up storing nothing.
// No-op for entitled users and at a zero counter.
func (svc *EntitlementService) RefundFreeAction(ctx context.Context) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state.HasActiveEntitlement || svc.state.FreeActionsUsed == 0 {
		return
	}

	svc.state.FreeActionsUsed--
	svc.persistLocked(ctx)
}

// HandleTransactionUpdate processes one event from the provider's
// transaction stream. Redelivered transaction IDs are side-effect free while
// entitlement is active; after a revocation a redelivered verified event may
// re-entitle. Never returns an error: listener failures are logged, not
// propagated.
func (svc *EntitlementService) HandleTransactionUpdate(ctx context.Context, upd providers.TransactionUpdate) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	switch {
	case svc.state.KnowsTransaction(upd.TransactionID) && svc.state.HasActiveEntitlement:
		svc.countEvent("duplicate")
	case !upd.Verified:
		svc.countEvent("unverified")
		logging.Debug("Ignoring unverified transaction update",
			"transaction_id", upd.TransactionID,
			"product_id", upd.ProductID,
		)
	case !constants.IsRecognizedProduct(upd.ProductID):
		svc.countEvent("unrecognized_product")
		logging.Warn("Verified transaction for unrecognized product",
			"transaction_id", upd.TransactionID,
			"product_id", upd.ProductID,
		)
	default:
		svc.countEvent("applied")
		svc.applyVerifiedLocked(ctx, upd.TransactionID, upd.ProductID, "stream")
	}
}

// applyVerifiedLocked records a verified transaction: flip to entitled,
// reset the free counter on the false->true transition, persist, audit.
// A known transaction ID is only a no-op while entitlement is already
// active; after a revocation the same ID must be able to re-entitle, since
// the provider's current set is the truth. Caller holds the mutex.
func (svc *EntitlementService) applyVerifiedLocked(ctx context.Context, transactionID, productID, source string) {
	if svc.state.KnowsTransaction(transactionID) && svc.state.HasActiveEntitlement {
		return
	}

	svc.state.KnownTransactionIDs[transactionID] = true
	if !svc.state.HasActiveEntitlement {
		svc.state.HasActiveEntitlement = true
		svc.state.FreeActionsUsed = 0
		svc.countTransition("entitled")
		logging.Info("Entitlement activated",
			"transaction_id", transactionID,
			"product_id", productID,
			"source", source,
		)
	}

	svc.persistLocked(ctx)
	svc.auditLocked(ctx, transactionID, productID, source+"_verified", true)
}

func (svc *EntitlementService) persistLocked(ctx context.Context) {
	if err := svc.store.Save(ctx, svc.state); err != nil {
		logging.Error("Failed to persist entitlement state", "error", err.Error())
	}
}

func (svc *EntitlementService) auditLocked(ctx context.Context, transactionID, productID, event string, verified bool) {
	if svc.audit == nil {
		return
	}
	if err := svc.audit.Append(ctx, transactionID, productID, event, verified); err != nil {
		logging.Warn("Failed to append entitlement audit", "event", event, "error", err.Error())
	}
}

// auditUnlocked is for call sites that don't hold the mutex; the audit log
// has no ordering requirement against state
func (svc *EntitlementService) auditUnlocked(ctx context.Context, transactionID, productID, event string, verified bool) {
	svc.auditLocked(ctx, transactionID, productID, event, verified)
}

func (svc *EntitlementService) countTransition(kind string) {
	if svc.metrics != nil {
		svc.metrics.EntitlementTransitionsTotal.WithLabelValues(kind).Inc()
	}
}

func (svc *EntitlementService) countEvent(disposition string) {
	if svc.metrics != nil {
		svc.metrics.TransactionEventsTotal.WithLabelValues(disposition).Inc()
	}
}
