package entities

import (
	"time"

	"flightdeck/watchtower/internal/constants"
)

// RouteEndpoint is one side of a flight's route with its timing detail.
// All fields are values; replacing a snapshot never mutates an endpoint in
// place.
type RouteEndpoint struct {
	Airport        string     `json:"airport"`
	City           string     `json:"city,omitempty"`
	Terminal       string     `json:"terminal,omitempty"`
	Gate           string     `json:"gate,omitempty"`
	ScheduledLocal time.Time  `json:"scheduledLocal"`
	ScheduledUTC   time.Time  `json:"scheduledUtc"`
	RevisedLocal   *time.Time `json:"revisedLocal,omitempty"`
	RevisedUTC     *time.Time `json:"revisedUtc,omitempty"`
	PredictedUTC   *time.Time `json:"predictedUtc,omitempty"`
	RunwayUTC      *time.Time `json:"runwayUtc,omitempty"`
}

// LivePosition is the last reported in-air position of a flight
type LivePosition struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    int       `json:"altitude"`
	GroundSpeed int       `json:"groundSpeed"`
	Track       float64   `json:"track"`
	ReportedAt  time.Time `json:"reportedAt"`
}

// FlightSnapshot is the resolved, point-in-time state for a tracked flight.
// It is a value: a refresh produces a new snapshot, never edits an old one.
type FlightSnapshot struct {
	FlightNumber string                 `json:"flightNumber"`
	Airline      string                 `json:"airline,omitempty"`
	Status       constants.FlightStatus `json:"status"`
	Origin       RouteEndpoint          `json:"origin"`
	Destination  RouteEndpoint          `json:"destination"`
	Position     *LivePosition          `json:"position,omitempty"`
	Aircraft     string                 `json:"aircraft,omitempty"`
	DistanceNm   int                    `json:"distanceNm,omitempty"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}
