package middleware

import (
	"net/http"
	"strings"

	"flightdeck/watchtower/internal/auth"
	"flightdeck/watchtower/internal/common"
)

// AuthMiddleware validates the Bearer access token and attaches device
// claims to the request context
func AuthMiddleware(tokens *common.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetDeviceClaims(r.Context(), &auth.DeviceClaims{
				DeviceID: token.DeviceID,
				TokenID:  token.TokenID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
