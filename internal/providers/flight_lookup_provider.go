package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"flightdeck/watchtower/internal/config"
	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/models/dtos"
)

// FlightLookupAPI resolves a flight number (optionally pinned to a date)
// into the upstream's list of matching flight records
type FlightLookupAPI interface {
	Lookup(ctx context.Context, flightNumber string, date string) ([]dtos.FlightRecord, error)
}

// FlightLookupProvider implements FlightLookupAPI against the flight status
// HTTP API
type FlightLookupProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFlightLookupProvider creates a provider from config
func NewFlightLookupProvider(cfg *config.Config) *FlightLookupProvider {
	return &FlightLookupProvider{
		BaseURL: cfg.FlightAPIBaseURL,
		APIKey:  cfg.FlightAPIKey,
		Client: &http.Client{
			Timeout: cfg.FlightAPITimeout,
		},
	}
}

// Lookup fetches all upstream matches for a flight number. The date is
// forwarded as a hint; pinning one authoritative record out of several is
// the caller's job.
func (p *FlightLookupProvider) Lookup(ctx context.Context, flightNumber string, date string) ([]dtos.FlightRecord, error) {
	// Input validation
	if flightNumber == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Flight number cannot be empty",
		}
	}

	endpoint := fmt.Sprintf("/flights/%s", url.PathEscape(flightNumber))
	if date != "" {
		endpoint += "?date=" + url.QueryEscape(date)
	}

	var resp dtos.FlightLookupResponse
	if _, err := p.doGET(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	return resp.Result, nil
}

// doGET performs a GET request with authentication
func (p *FlightLookupProvider) doGET(ctx context.Context, endpoint string, result interface{}) (int, error) {
	// Validate API key
	if p.APIKey == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "FLIGHT_API_KEY is not set",
		}
	}

	// Build request
	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	// Set headers
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// Handle HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	// Parse response
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeResourceNotFound,
			Message: fmt.Sprintf("Resource not found: %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("Bad request to %s", endpoint),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}
