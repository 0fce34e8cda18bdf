package workers

import (
	"context"

	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/providers"
	"flightdeck/watchtower/internal/services"
)

// TransactionListener owns the long-lived subscription to the purchase
// provider's transaction stream. It runs for the life of the process and
// stops cleanly when its context is cancelled; event processing errors never
// stop the loop.
type TransactionListener struct {
	provider    providers.PurchaseProvider
	entitlement *services.EntitlementService
	done        chan struct{}
}

// NewTransactionListener wires the listener
func NewTransactionListener(provider providers.PurchaseProvider, entitlement *services.EntitlementService) *TransactionListener {
	return &TransactionListener{
		provider:    provider,
		entitlement: entitlement,
		done:        make(chan struct{}),
	}
}

// Start launches the listener goroutine. Cancel ctx to stop it.
func (l *TransactionListener) Start(ctx context.Context) {
	updates := l.provider.TransactionUpdates(ctx)

	go func() {
		defer close(l.done)
		logging.Info("Transaction listener started")

		for {
			select {
			case <-ctx.Done():
				logging.Info("Transaction listener stopping")
				return
			case upd, ok := <-updates:
				if !ok {
					logging.Info("Transaction stream closed")
					return
				}
				l.entitlement.HandleTransactionUpdate(ctx, upd)
			}
		}
	}()
}

// Done unblocks once the listener goroutine has exited
func (l *TransactionListener) Done() <-chan struct{} {
	return l.done
}
