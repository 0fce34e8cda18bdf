package constants

const (
	CreateEntitlementAuditTable = `
	CREATE TABLE IF NOT EXISTS entitlement_audit (
		id BIGSERIAL PRIMARY KEY,
		transaction_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		event TEXT NOT NULL,
		verified BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
	`

	InsertEntitlementAudit = `
	INSERT INTO entitlement_audit (transaction_id, product_id, event, verified)
	VALUES ($1, $2, $3, $4)
	`

	GetRecentEntitlementAudit = `
	SELECT id, transaction_id, product_id, event, verified, created_at
	FROM entitlement_audit ORDER BY id DESC LIMIT $1
	`
)
