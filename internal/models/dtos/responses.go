package dtos

import (
	"time"

	"flightdeck/watchtower/internal/models/entities"
)

// APIResponse is the common envelope for every endpoint
type APIResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message,omitempty"`
	ResponseTime string      `json:"response_time,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// SessionResponse carries the issued access token
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// WatchlistEntryDto is one row of the watchlist view: either a snapshot or
// an error the user can act on (retry via refresh, or delete)
type WatchlistEntryDto struct {
	Ref      entities.TrackedFlightRef `json:"ref"`
	Snapshot *entities.FlightSnapshot  `json:"snapshot,omitempty"`
	Error    string                    `json:"error,omitempty"`
	ErrCode  string                    `json:"errCode,omitempty"`
}

// WatchlistResponse is the ordered watchlist view
type WatchlistResponse struct {
	Entries []WatchlistEntryDto `json:"entries"`
}

// TrackFlightResponse reports whether a track request stored a new ref
type TrackFlightResponse struct {
	Inserted bool                      `json:"inserted"`
	Ref      entities.TrackedFlightRef `json:"ref"`
	Snapshot *entities.FlightSnapshot  `json:"snapshot,omitempty"`
}

// EntitlementResponse is the gate state the client renders paywalls from
type EntitlementResponse struct {
	Entitled             bool `json:"entitled"`
	FreeActionsRemaining int  `json:"freeActionsRemaining"`
}

// ProductDto is one purchasable subscription tier
type ProductDto struct {
	ProductID   string `json:"productId"`
	DisplayName string `json:"displayName"`
	Price       string `json:"price,omitempty"`
	HasTrial    bool   `json:"hasTrial"`
}

// ProductsResponse lists the recognized catalog
type ProductsResponse struct {
	Products []ProductDto `json:"products"`
}
