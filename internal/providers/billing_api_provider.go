package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flightdeck/watchtower/internal/config"
	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/models/dtos"
)

// BillingAPIProvider implements PurchaseProvider against the billing
// gateway. The transaction stream is realized by polling the updates
// endpoint; the gateway redelivers events until acknowledged downstream, so
// consumers must deduplicate by transaction ID.
type BillingAPIProvider struct {
	BaseURL      string
	APIKey       string
	Client       *http.Client
	PollInterval time.Duration
}

// Ensure BillingAPIProvider implements PurchaseProvider
var _ PurchaseProvider = (*BillingAPIProvider)(nil)

// NewBillingAPIProvider creates a provider from config
func NewBillingAPIProvider(cfg *config.Config) *BillingAPIProvider {
	return &BillingAPIProvider{
		BaseURL:      cfg.BillingAPIBaseURL,
		APIKey:       cfg.BillingAPIKey,
		PollInterval: cfg.BillingPollInterval,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListProducts fetches catalog entries for the given product IDs
func (p *BillingAPIProvider) ListProducts(ctx context.Context, ids []string) ([]Product, error) {
	endpoint := "/products"
	if len(ids) > 0 {
		q := url.Values{}
		for _, id := range ids {
			q.Add("id", id)
		}
		endpoint += "?" + q.Encode()
	}

	var resp dtos.BillingProductsResponse
	if _, err := p.doGET(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(resp.Result))
	for _, raw := range resp.Result {
		products = append(products, Product{
			ProductID:   raw.ProductID,
			DisplayName: raw.DisplayName,
			Price:       raw.Price,
			HasTrial:    raw.HasTrial,
		})
	}
	return products, nil
}

// Purchase initiates a purchase of one product and reports its outcome
func (p *BillingAPIProvider) Purchase(ctx context.Context, productID string) (*PurchaseResult, error) {
	if productID == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Product ID cannot be empty",
		}
	}

	reqBody := dtos.BillingPurchaseRequest{ProductID: productID}

	var resp dtos.BillingPurchaseResponse
	if _, err := p.doPost(ctx, "/purchases", reqBody, &resp); err != nil {
		return nil, err
	}

	state := PurchaseState(resp.State)
	switch state {
	case PurchaseVerified, PurchaseUnverified, PurchasePending, PurchaseCancelled:
	default:
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("Unknown purchase state %q", resp.State),
		}
	}

	return &PurchaseResult{
		State:         state,
		TransactionID: resp.TransactionID,
	}, nil
}

// RestorePurchases asks the gateway to re-sync purchases for this account
func (p *BillingAPIProvider) RestorePurchases(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	_, err := p.doPost(ctx, "/purchases/restore", struct{}{}, &resp)
	return err
}

// CurrentEntitlements returns the gateway's currently-entitling transactions
func (p *BillingAPIProvider) CurrentEntitlements(ctx context.Context) ([]TransactionUpdate, error) {
	var resp dtos.BillingTransactionsResponse
	if _, err := p.doGET(ctx, "/entitlements", &resp); err != nil {
		return nil, err
	}

	updates := make([]TransactionUpdate, 0, len(resp.Result))
	for _, raw := range resp.Result {
		updates = append(updates, TransactionUpdate{
			TransactionID: raw.TransactionID,
			ProductID:     raw.ProductID,
			Verified:      raw.Verified,
		})
	}
	return updates, nil
}

// TransactionUpdates polls the updates endpoint and forwards events until
// ctx is cancelled. Poll failures are logged and the loop keeps going.
func (p *BillingAPIProvider) TransactionUpdates(ctx context.Context) <-chan TransactionUpdate {
	out := make(chan TransactionUpdate, 100)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.PollInterval)
		defer ticker.Stop()

		since := time.Now().Unix()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			endpoint := "/transactions/updates?since=" + strconv.FormatInt(since, 10)
			var resp dtos.BillingTransactionsResponse
			if _, err := p.doGET(ctx, endpoint, &resp); err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.Warn("Billing transaction poll failed", "error", err.Error())
				continue
			}
			since = time.Now().Unix()

			for _, raw := range resp.Result {
				upd := TransactionUpdate{
					TransactionID: raw.TransactionID,
					ProductID:     raw.ProductID,
					Verified:      raw.Verified,
				}
				select {
				case out <- upd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// doGET performs a GET request with authentication
func (p *BillingAPIProvider) doGET(ctx context.Context, endpoint string, result interface{}) (int, error) {
	if p.APIKey == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "BILLING_API_KEY is not set",
		}
	}

	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}

// doPost performs a POST request with authentication and JSON body
func (p *BillingAPIProvider) doPost(ctx context.Context, endpoint string, payload interface{}, result interface{}) (int, error) {
	if p.APIKey == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "BILLING_API_KEY is not set",
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}
