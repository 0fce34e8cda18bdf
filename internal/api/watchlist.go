package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/models/dtos"
	"flightdeck/watchtower/internal/models/entities"
)

// GetWatchlist resolves the full stored watchlist. Entries come back in
// stored order; items that failed to resolve carry an error code and message
// so the client can offer retry or delete.
func (h *Handlers) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	entries := h.deps.Watchlist.Entries(r.Context())

	respondWithSuccess(w, http.StatusOK, start, dtos.WatchlistResponse{
		Entries: entryDtos(entries),
	})
}

// TrackFlight adds one flight to the watchlist. Non-entitled callers consume
// a free action; once the quota is exhausted the request is refused until a
// verified purchase. A request that stores nothing refunds the action.
func (h *Handlers) TrackFlight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dtos.TrackFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, start, "Invalid request body")
		return
	}

	flightNumber := strings.ToUpper(strings.TrimSpace(req.FlightNumber))
	if flightNumber == "" {
		respondWithError(w, http.StatusBadRequest, start, "Flight number is required")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respondWithError(w, http.StatusBadRequest, start, "Date must be YYYY-MM-DD")
		return
	}

	if !h.deps.Entitlement.ConsumeFreeAction(r.Context()) {
		respondWithError(w, http.StatusForbidden, start,
			constants.GetErrorMessage(constants.ErrCodeQuotaExhausted))
		return
	}

	// The action only counts when it actually stores a new ref
	ref := entities.NewTrackedFlightRef(flightNumber, req.Date)
	entry := h.deps.Watchlist.Resolve(r.Context(), ref)
	if entry.ErrCode == constants.ErrCodeFlightNotFound {
		h.deps.Entitlement.RefundFreeAction(r.Context())
		respondWithError(w, http.StatusNotFound, start,
			constants.GetErrorMessage(constants.ErrCodeFlightNotFound))
		return
	}
	if entry.ErrCode != "" {
		h.deps.Entitlement.RefundFreeAction(r.Context())
		respondWithError(w, http.StatusBadGateway, start,
			constants.GetErrorMessage(entry.ErrCode))
		return
	}

	inserted, err := h.deps.Watchlist.Add(r.Context(), ref, entry.Snapshot)
	if err != nil {
		h.deps.Entitlement.RefundFreeAction(r.Context())
		respondWithError(w, http.StatusInternalServerError, start, "Failed to save watchlist")
		return
	}
	if !inserted {
		h.deps.Entitlement.RefundFreeAction(r.Context())
	}

	respondWithSuccess(w, http.StatusOK, start, dtos.TrackFlightResponse{
		Inserted: inserted,
		Ref:      ref,
		Snapshot: entry.Snapshot,
	})
}

// UntrackFlight removes one flight from the watchlist by identity
func (h *Handlers) UntrackFlight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	flightNumber := strings.ToUpper(chi.URLParam(r, "flightNumber"))
	date := chi.URLParam(r, "date")
	if flightNumber == "" || date == "" {
		respondWithError(w, http.StatusBadRequest, start, "Flight number and date are required")
		return
	}

	removed, err := h.deps.Watchlist.Remove(r.Context(), flightNumber, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, start, "Failed to update watchlist")
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, start, "Flight is not on the watchlist")
		return
	}

	respondWithSuccess(w, http.StatusOK, start, map[string]bool{"removed": true})
}

// SearchFlight looks up a flight without saving it. Blocked once a
// non-entitled session has exhausted its quota.
func (h *Handlers) SearchFlight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	flightNumber := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("flight")))
	date := r.URL.Query().Get("date")
	if flightNumber == "" {
		respondWithError(w, http.StatusBadRequest, start, "Query parameter 'flight' is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondWithError(w, http.StatusBadRequest, start, "Query parameter 'date' must be YYYY-MM-DD")
		return
	}

	if !h.deps.Entitlement.IsEntitled() && h.deps.Entitlement.RemainingFreeActions() == 0 {
		respondWithError(w, http.StatusForbidden, start,
			constants.GetErrorMessage(constants.ErrCodeQuotaExhausted))
		return
	}

	entry := h.deps.Watchlist.Resolve(r.Context(), entities.NewTrackedFlightRef(flightNumber, date))
	if entry.ErrCode == constants.ErrCodeFlightNotFound {
		respondWithError(w, http.StatusNotFound, start,
			constants.GetErrorMessage(constants.ErrCodeFlightNotFound))
		return
	}
	if entry.ErrCode != "" {
		respondWithError(w, http.StatusBadGateway, start,
			constants.GetErrorMessage(entry.ErrCode))
		return
	}

	respondWithSuccess(w, http.StatusOK, start, entry.Snapshot)
}

func entryDtos(entries []entities.WatchlistEntry) []dtos.WatchlistEntryDto {
	out := make([]dtos.WatchlistEntryDto, len(entries))
	for i, e := range entries {
		out[i] = dtos.WatchlistEntryDto{
			Ref:      e.Ref,
			Snapshot: e.Snapshot,
			ErrCode:  e.ErrCode,
		}
		if e.ErrCode != "" {
			out[i].Error = constants.GetErrorMessage(e.ErrCode)
		}
	}
	return out
}
