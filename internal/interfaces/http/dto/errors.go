package dto

import (
	"net/http"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
)

// Error codes raised by the HTTP layer itself. Domain codes come from the
// shared and invoice packages.
const (
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = shared.CodeUnavailable
)

// RetryAfterSeconds is sent with responses whose code is retryable
const RetryAfterSeconds = "1"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Validation -> 400
	shared.CodeValidation:            http.StatusBadRequest,
	invoice.CodeInvalidCurrency:      http.StatusBadRequest,
	invoice.CodeInvalidPaymentStatus: http.StatusBadRequest,
	invoice.CodeInvalidQuantity:      http.StatusBadRequest,
	invoice.CodeInvalidRate:          http.StatusBadRequest,
	invoice.CodeInvalidDiscount:      http.StatusBadRequest,
	ErrCodeBadRequest:                http.StatusBadRequest,
	ErrCodeInvalidJSON:               http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInvalidToken: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resources
	shared.CodeNotFound:        http.StatusNotFound,
	shared.CodeConflict:        http.StatusConflict,
	shared.CodeContention:      http.StatusConflict,
	invoice.CodeNumberAssigned: http.StatusConflict,

	// Server side
	shared.CodeCorruptSequenceState: http.StatusInternalServerError,
	shared.CodePersistence:          http.StatusInternalServerError,
	ErrCodeInternal:                 http.StatusInternalServerError,
	ErrCodeUnavailable:              http.StatusServiceUnavailable,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// retryableCodes are answered with a Retry-After header
var retryableCodes = map[string]bool{
	shared.CodeConflict:   true,
	shared.CodeContention: true,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether a client should retry a request that failed with code
func IsRetryable(code string) bool {
	return retryableCodes[code]
}
