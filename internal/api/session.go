package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"flightdeck/watchtower/internal/models/dtos"
)

// CreateSession exchanges the device secret for a signed access token
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dtos.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, start, "Invalid request body")
		return
	}

	secret := h.deps.Config.DeviceSecret
	if secret == "" {
		respondWithError(w, http.StatusInternalServerError, start, "Device secret not configured")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.DeviceSecret), []byte(secret)) != 1 {
		respondWithError(w, http.StatusUnauthorized, start, "Invalid device secret")
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = uuid.New().String()
	}

	token, expiresAt, err := h.deps.Tokens.IssueToken(deviceID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, start, "Failed to issue token")
		return
	}

	respondWithSuccess(w, http.StatusOK, start, dtos.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
