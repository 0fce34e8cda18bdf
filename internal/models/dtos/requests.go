package dtos

// SessionRequest exchanges the device secret for an access token. DeviceID
// is optional; a fresh one is assigned when absent.
type SessionRequest struct {
	DeviceSecret string `json:"deviceSecret"`
	DeviceID     string `json:"deviceId,omitempty"`
}

// TrackFlightRequest asks the watchlist to start tracking one flight
type TrackFlightRequest struct {
	FlightNumber string `json:"flightNumber"`
	Date         string `json:"date"` // YYYY-MM-DD
}

// PurchaseRequest initiates a subscription purchase
type PurchaseRequest struct {
	ProductID string `json:"productId"`
}
