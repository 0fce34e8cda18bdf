package entities

import (
	"github.com/google/uuid"
)

// TrackedFlightRef is a stored (flight number, date) identity the user wants
// to track, independent of any resolved data. Identity is the pair; ID is a
// stable surrogate used only for client-side diffing.
type TrackedFlightRef struct {
	ID           string `json:"id"`
	FlightNumber string `json:"flightNumber"`
	Date         string `json:"date"` // YYYY-MM-DD, scheduled local departure date
}

// NewTrackedFlightRef creates a ref with a fresh surrogate ID
func NewTrackedFlightRef(flightNumber, date string) TrackedFlightRef {
	return TrackedFlightRef{
		ID:           uuid.New().String(),
		FlightNumber: flightNumber,
		Date:         date,
	}
}

// Key returns the identity of the ref. Two refs with the same key are the
// same tracked flight regardless of surrogate ID.
func (r TrackedFlightRef) Key() string {
	return r.FlightNumber + ":" + r.Date
}

// WatchlistEntry pairs a ref with either its resolved snapshot or an error
// code explaining why resolution failed. Exactly one of Snapshot/ErrCode is
// meaningful.
type WatchlistEntry struct {
	Ref      TrackedFlightRef `json:"ref"`
	Snapshot *FlightSnapshot  `json:"snapshot,omitempty"`
	ErrCode  string           `json:"errCode,omitempty"`
}

// Resolved reports whether the entry carries a snapshot
func (e WatchlistEntry) Resolved() bool {
	return e.Snapshot != nil && e.ErrCode == ""
}
