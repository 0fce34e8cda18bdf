package constants

import "strings"

// FlightStatus is the closed set of statuses a resolved flight can carry.
// Anything the upstream sends that doesn't map here becomes StatusUnknown.
type FlightStatus string

const (
	StatusScheduled FlightStatus = "SCHEDULED"
	StatusDeparted  FlightStatus = "DEPARTED"
	StatusDelayed   FlightStatus = "DELAYED"
	StatusDiverted  FlightStatus = "DIVERTED"
	StatusCanceled  FlightStatus = "CANCELED"
	StatusArrived   FlightStatus = "ARRIVED"
	StatusUnknown   FlightStatus = "UNKNOWN"
)

// NormalizeFlightStatus maps an upstream status string onto the closed set.
// Matching is case-insensitive and tolerant of phrasing like "En Route" or
// "Departed - Taxiing".
func NormalizeFlightStatus(raw string) FlightStatus {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case s == "":
		return StatusUnknown
	case strings.Contains(s, "cancel"):
		return StatusCanceled
	case strings.Contains(s, "divert"):
		return StatusDiverted
	case strings.Contains(s, "delay"):
		return StatusDelayed
	case strings.Contains(s, "arriv") || strings.Contains(s, "landed"):
		return StatusArrived
	case strings.Contains(s, "depart") || strings.Contains(s, "en route") ||
		strings.Contains(s, "enroute") || strings.Contains(s, "airborne") ||
		strings.Contains(s, "in flight"):
		return StatusDeparted
	case strings.Contains(s, "schedul") || strings.Contains(s, "expected") ||
		strings.Contains(s, "on time"):
		return StatusScheduled
	default:
		return StatusUnknown
	}
}
