package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by the domain and interface layers
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeContention           = "CONTENTION"
	CodeCorruptSequenceState = "CORRUPT_SEQUENCE_STATE"
	CodePersistence          = "PERSISTENCE_ERROR"
	CodeUnavailable          = "SERVICE_UNAVAILABLE"
)

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Cause   error        `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code, so callers can write
// errors.Is(err, shared.ErrNotFound) regardless of the message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the original cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error with field-level details
func NewValidationError(fields ...FieldError) *DomainError {
	msg := "Validation failed"
	if len(fields) == 1 {
		msg = fields[0].Field + ": " + fields[0].Message
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: msg,
		Fields:  fields,
	}
}

// CodeOf returns the domain code of err, or an empty string
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict             = NewDomainError(CodeConflict, "Resource already exists")
	ErrContention           = NewDomainError(CodeContention, "Resource is locked by a concurrent operation, retry the request")
	ErrCorruptSequenceState = NewDomainError(CodeCorruptSequenceState, "Stored sequence data is corrupt")
	ErrPersistence          = NewDomainError(CodePersistence, "Storage operation failed")
	ErrValidation           = NewDomainError(CodeValidation, "Validation failed")
	ErrUnavailable          = NewDomainError(CodeUnavailable, "Service temporarily unavailable")
)
