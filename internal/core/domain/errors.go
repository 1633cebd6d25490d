package domain

import "fmt"

// DomainError represents a domain error with a structured error code.
// Codes follow the format FS-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "FS-QRY-2040")
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

// ============================================================================
// Query Errors (QRY)
// ============================================================================

var (
	// ErrEmptyResult indicates a list phase returned no identifiers.
	// It is a terminal outcome, not a failure.
	ErrEmptyResult = NewDomainError("FS-QRY-2040", "no records found")

	// ErrUnknownFamily indicates an unsupported resource family.
	ErrUnknownFamily = NewDomainError("FS-QRY-4000", "unknown resource family")

	// ErrInvalidFilterMode indicates a filter mode other than default or all.
	ErrInvalidFilterMode = NewDomainError("FS-QRY-4001", "invalid filter mode")
)

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrMissingToken indicates no token is cached. The operator must run
	// token generation first.
	ErrMissingToken = NewDomainError("FS-TOKN-4040", "no cached token, run 'token generate' first")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrMissingCredentials indicates client id or secret are not configured.
	ErrMissingCredentials = NewDomainError("FS-AUTH-4010", "client id and client secret are required")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrStorage indicates a token storage failure.
	ErrStorage = NewDomainError("FS-SYS-5001", "token storage error")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("FS-ARG-1001", "invalid argument")

	// ErrArgumentConflict indicates conflicting arguments.
	ErrArgumentConflict = NewDomainError("FS-ARG-1003", "argument conflict")
)
