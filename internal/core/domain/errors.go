// Package domain defines the core domain types for LedgerMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes follow the format LM-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "LM-ARGS-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
// Two domain errors match when their codes are equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Argument Errors (ARGS)
// ============================================================================

var (
	// ErrInvalidValue indicates a raw string could not be coerced into the
	// requested type. Recoverable: callers may re-prompt or report it.
	ErrInvalidValue = NewDomainError("LM-ARGS-4000", "invalid value")

	// ErrUsage indicates malformed or missing command-line arguments.
	// The dispatcher turns it into a non-zero process exit.
	ErrUsage = NewDomainError("LM-ARGS-4001", "incorrect usage")
)

// ============================================================================
// Command Errors (CMD)
// ============================================================================

var (
	// ErrNotImplemented indicates a subcommand exists in the parser tree but
	// has no bound handler. It is a wiring defect, never a user input error.
	ErrNotImplemented = NewDomainError("LM-CMD-5010", "command not implemented")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrConfig indicates the configuration could not be loaded or is invalid.
	ErrConfig = NewDomainError("LM-CONF-5000", "configuration error")
)
