package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/models/dtos"
)

func respondWithSuccess(w http.ResponseWriter, statusCode int, start time.Time, data interface{}) {
	resp := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		ResponseTime: responseTime(start),
		Data:         data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, start time.Time, message string) {
	resp := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: responseTime(start),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func responseTime(start time.Time) string {
	return fmt.Sprintf("%dms", time.Since(start).Milliseconds())
}
