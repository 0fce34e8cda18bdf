package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

// HealthCheckHandler reports process liveness, uptime and DB reachability
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		dbStatus := "ok"
		if db == nil {
			dbStatus = "not_configured"
		} else if err := db.PingContext(r.Context()); err != nil {
			dbStatus = "unreachable"
		}

		respondWithSuccess(w, http.StatusOK, start, map[string]interface{}{
			"database": dbStatus,
			"uptime":   time.Since(upSince).Round(time.Second).String(),
		})
	}
}
