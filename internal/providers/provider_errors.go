package providers

import (
	"errors"
	"fmt"

	"flightdeck/watchtower/internal/constants"
)

// ProviderError carries the upstream failure taxonomy for logging and
// diagnostics. The watchlist view folds most of these into a single
// "unresolved" state; the code survives in logs.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the provider error code from any error chain,
// defaulting to NETWORK_ERROR for plain transport failures
func ErrorCode(err error) string {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return constants.ErrCodeNetworkError
}

// IsNotFound reports whether the error chain carries the upstream
// not-found code
func IsNotFound(err error) bool {
	return ErrorCode(err) == constants.ErrCodeResourceNotFound
}
