package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry the same codes,
// so handlers pass them through unchanged.
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	ErrCodeIdempotencyViolation = "IDEMPOTENCY_VIOLATION"
	ErrCodeInsufficientCredit   = "INSUFFICIENT_CREDIT"
	ErrCodeConfigurationMissing = "CONFIGURATION_MISSING"
	ErrCodeConsistencyViolation = "CONSISTENCY_VIOLATION"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusConflict,
	ErrCodeConcurrencyConflict:  http.StatusConflict,
	ErrCodeIdempotencyViolation: http.StatusConflict,
	ErrCodeInsufficientCredit:   http.StatusUnprocessableEntity,
	ErrCodeConfigurationMissing: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeConsistencyViolation: http.StatusInternalServerError,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeInternal:             http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code,
// falling back to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
