package constants

// Watchlist Error Codes
// These constants identify why a tracked flight could not be resolved

const (
	ErrCodeFlightNotFound  = "FLIGHT_NOT_FOUND"
	ErrCodeLookupTransient = "LOOKUP_TRANSIENT"
	ErrCodeAlreadyTracked  = "ALREADY_TRACKED"
)

// Entitlement Error Codes

const (
	ErrCodeTransactionUnverified = "TRANSACTION_UNVERIFIED"
	ErrCodePurchasePending       = "PURCHASE_PENDING"
	ErrCodeNothingToRestore      = "NOTHING_TO_RESTORE"
	ErrCodeQuotaExhausted        = "QUOTA_EXHAUSTED"
	ErrCodeUnknownProduct        = "UNKNOWN_PRODUCT"
)

// Provider Error Codes
// Upstream-facing failures preserved for logging and diagnostics

const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ErrorMessages = map[string]string{
	ErrCodeFlightNotFound:  "No flight matches the given number and date",
	ErrCodeLookupTransient: "Flight status is temporarily unavailable",
	ErrCodeAlreadyTracked:  "Flight is already on the watchlist",

	ErrCodeTransactionUnverified: "The purchase could not be verified",
	ErrCodePurchasePending:       "The purchase is awaiting approval",
	ErrCodeNothingToRestore:      "No previous purchases were found to restore",
	ErrCodeQuotaExhausted:        "Free tier limit reached",
	ErrCodeUnknownProduct:        "Unrecognized product identifier",

	ErrCodeInvalidAPIKey:     "Authentication with the upstream API failed",
	ErrCodeRateLimited:       "Upstream API rate limit exceeded",
	ErrCodeNetworkError:      "Network error while contacting upstream API",
	ErrCodeResourceNotFound:  "Upstream resource not found",
	ErrCodeInvalidDataFormat: "Upstream returned data in an unexpected format",
}

// GetErrorMessage returns the message for a code, or the code itself
// when no message is registered
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return code
}
