package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientCredit  = NewDomainError("INSUFFICIENT_CREDIT", "Insufficient credit available")
)

// Ledger error codes. These map one-to-one onto HTTP error codes at the
// interface layer and must stay stable.
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInsufficientCredit   = "INSUFFICIENT_CREDIT"
	ErrCodeIdempotencyViolation = "IDEMPOTENCY_VIOLATION"
	ErrCodeConfigurationMissing = "CONFIGURATION_MISSING"
	ErrCodeConsistencyViolation = "CONSISTENCY_VIOLATION"
)

// NewValidationError creates a VALIDATION_ERROR domain error
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewIdempotencyViolationError creates an IDEMPOTENCY_VIOLATION domain error.
// Returned when an operation that must apply exactly once is attempted again;
// the repeated call must not produce a duplicate side effect.
func NewIdempotencyViolationError(message string) *DomainError {
	return NewDomainError(ErrCodeIdempotencyViolation, message)
}

// NewConfigurationMissingError creates a CONFIGURATION_MISSING domain error
func NewConfigurationMissingError(message string) *DomainError {
	return NewDomainError(ErrCodeConfigurationMissing, message)
}

// NewConsistencyViolationError creates a CONSISTENCY_VIOLATION domain error.
// Raised when a stored balance disagrees with the sum of its ledger entries.
// The divergence is reported, never auto-corrected.
func NewConsistencyViolationError(message string) *DomainError {
	return NewDomainError(ErrCodeConsistencyViolation, message)
}
