package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"flightdeck/watchtower/internal/constants"
)

// EntitlementAuditEntry is one appended row of the transition log
type EntitlementAuditEntry struct {
	ID            int64     `db:"id"`
	TransactionID string    `db:"transaction_id"`
	ProductID     string    `db:"product_id"`
	Event         string    `db:"event"`
	Verified      bool      `db:"verified"`
	CreatedAt     time.Time `db:"created_at"`
}

// AuditLog records entitlement transitions for later inspection. The log is
// diagnostics only; entitlement correctness never reads from it.
type AuditLog interface {
	Append(ctx context.Context, transactionID, productID, event string, verified bool) error
}

// EntitlementAuditRepository implements AuditLog on Postgres via sqlx
type EntitlementAuditRepository struct {
	db *sqlx.DB
}

// Ensure EntitlementAuditRepository implements AuditLog
var _ AuditLog = (*EntitlementAuditRepository)(nil)

// NewEntitlementAuditRepository creates the repository and its table
func NewEntitlementAuditRepository(db *sqlx.DB) (*EntitlementAuditRepository, error) {
	if _, err := db.Exec(constants.CreateEntitlementAuditTable); err != nil {
		return nil, fmt.Errorf("failed to create entitlement audit table: %w", err)
	}
	return &EntitlementAuditRepository{db: db}, nil
}

// Append writes one transition row
func (r *EntitlementAuditRepository) Append(ctx context.Context, transactionID, productID, event string, verified bool) error {
	_, err := r.db.ExecContext(ctx, constants.InsertEntitlementAudit,
		transactionID, productID, event, verified)
	if err != nil {
		return fmt.Errorf("failed to append entitlement audit: %w", err)
	}
	return nil
}

// Recent returns the newest rows, newest first
func (r *EntitlementAuditRepository) Recent(ctx context.Context, limit int) ([]EntitlementAuditEntry, error) {
	var rows []EntitlementAuditEntry
	if err := r.db.SelectContext(ctx, &rows, constants.GetRecentEntitlementAudit, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch entitlement audit: %w", err)
	}
	return rows, nil
}
