package dtos

// Wire types for the billing gateway (purchase provider)

type BillingProduct struct {
	ProductID   string `json:"productId"`
	DisplayName string `json:"displayName"`
	Price       string `json:"price"`
	HasTrial    bool   `json:"hasTrial"`
}

type BillingProductsResponse struct {
	Result []BillingProduct `json:"result"`
}

type BillingPurchaseRequest struct {
	ProductID string `json:"productId"`
}

// BillingPurchaseResponse reports the outcome of a purchase attempt.
// State is one of "verified", "unverified", "pending", "cancelled".
type BillingPurchaseResponse struct {
	State         string `json:"state"`
	TransactionID string `json:"transactionId"`
}

type BillingTransaction struct {
	TransactionID string `json:"transactionId"`
	ProductID     string `json:"productId"`
	Verified      bool   `json:"verified"`
}

type BillingTransactionsResponse struct {
	Result []BillingTransaction `json:"result"`
}
