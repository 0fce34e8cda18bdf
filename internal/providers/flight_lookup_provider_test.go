package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightdeck/watchtower/internal/constants"
)

func newTestLookupProvider(serverURL string) *FlightLookupProvider {
	return &FlightLookupProvider{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flights/UA123" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-09-01" {
			t.Errorf("Expected date hint forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"errorCode": 0,
			"result": [{
				"flightNumber": "UA123",
				"airline": "United",
				"status": "Departed",
				"departure": {"code": "SFO", "city": "San Francisco"},
				"arrival": {"code": "EWR", "city": "Newark"}
			}]
		}`))
	}))
	defer server.Close()

	provider := newTestLookupProvider(server.URL)
	records, err := provider.Lookup(context.Background(), "UA123", "2026-09-01")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Departure.Code != "SFO" || records[0].Status != "Departed" {
		t.Errorf("Unexpected record %+v", records[0])
	}
}

func TestLookup_NotFoundMapsToResourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no such flight"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := newTestLookupProvider(server.URL)
	_, err := provider.Lookup(context.Background(), "ZZ999", "")
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	if code := ErrorCode(err); code != constants.ErrCodeResourceNotFound {
		t.Errorf("Expected %s, got %s", constants.ErrCodeResourceNotFound, code)
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to report true")
	}
}

func TestLookup_StatusCodeMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, constants.ErrCodeInvalidAPIKey},
		{http.StatusTooManyRequests, constants.ErrCodeRateLimited},
		{http.StatusBadRequest, constants.ErrCodeInvalidDataFormat},
		{http.StatusBadGateway, constants.ErrCodeNetworkError},
	}

	for _, tc := range cases {
		status := tc.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		provider := newTestLookupProvider(server.URL)
		_, err := provider.Lookup(context.Background(), "UA123", "")
		server.Close()

		if err == nil {
			t.Errorf("Status %d: expected error", tc.status)
			continue
		}
		if code := ErrorCode(err); code != tc.code {
			t.Errorf("Status %d: expected %s, got %s", tc.status, tc.code, code)
		}
	}
}

func TestLookup_EmptyFlightNumberRejected(t *testing.T) {
	provider := newTestLookupProvider("http://unused.invalid")
	_, err := provider.Lookup(context.Background(), "", "")
	if err == nil {
		t.Fatal("Expected error for empty flight number")
	}
	if code := ErrorCode(err); code != constants.ErrCodeInvalidDataFormat {
		t.Errorf("Expected %s, got %s", constants.ErrCodeInvalidDataFormat, code)
	}
}

func TestLookup_MissingAPIKey(t *testing.T) {
	provider := &FlightLookupProvider{
		BaseURL: "http://unused.invalid",
		Client:  http.DefaultClient,
	}
	_, err := provider.Lookup(context.Background(), "UA123", "")
	if err == nil {
		t.Fatal("Expected error when API key is unset")
	}
	if code := ErrorCode(err); code != constants.ErrCodeInvalidAPIKey {
		t.Errorf("Expected %s, got %s", constants.ErrCodeInvalidAPIKey, code)
	}
}
