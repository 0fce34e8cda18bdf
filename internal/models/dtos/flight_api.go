package dtos

import "time"

// Wire types for the flight status API. Field names follow the upstream
// JSON contract; anything missing decodes to its zero value.

type FlightAirportTimes struct {
	ScheduledLocal time.Time  `json:"scheduledLocal"`
	ScheduledUTC   time.Time  `json:"scheduledUtc"`
	RevisedLocal   *time.Time `json:"revisedLocal,omitempty"`
	RevisedUTC     *time.Time `json:"revisedUtc,omitempty"`
	PredictedUTC   *time.Time `json:"predictedUtc,omitempty"`
	RunwayUTC      *time.Time `json:"runwayUtc,omitempty"`
}

type FlightAirport struct {
	Code     string             `json:"code"`
	City     string             `json:"city"`
	Terminal string             `json:"terminal"`
	Gate     string             `json:"gate"`
	Times    FlightAirportTimes `json:"times"`
}

type FlightPosition struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    int       `json:"altitude"`
	GroundSpeed int       `json:"groundSpeed"`
	Track       float64   `json:"track"`
	Date        time.Time `json:"date"`
}

// FlightRecord is one upstream match for a flight number. A lookup may
// return several (codeshares, multi-leg ambiguity).
type FlightRecord struct {
	FlightNumber string          `json:"flightNumber"`
	Airline      string          `json:"airline"`
	Status       string          `json:"status"`
	Departure    FlightAirport   `json:"departure"`
	Arrival      FlightAirport   `json:"arrival"`
	Position     *FlightPosition `json:"position,omitempty"`
	Aircraft     string          `json:"aircraft"`
	DistanceNm   int             `json:"distanceNm"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// FlightLookupResponse is the envelope the flight status API wraps results in
type FlightLookupResponse struct {
	ErrorCode int            `json:"errorCode"`
	Result    []FlightRecord `json:"result"`
}
