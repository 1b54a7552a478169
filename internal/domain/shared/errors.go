// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrAlreadyResolved = errors.New("already resolved")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "matching", "invitation", "engagement"
	Op      string // Operation that failed, e.g., "Create", "Rank"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Matching domain errors
var (
	ErrNegativeTopN       = NewDomainError("matching", "SelectTop", ErrNegativeValue, "topN cannot be negative")
	ErrInvalidMatchScore  = NewDomainError("matching", "Validate", ErrValueOutOfRange, "match score must be between 0 and 100")
	ErrInvalidCandidateID = NewDomainError("matching", "Validate", ErrInvalidID, "invalid candidate ID")
)

// Directory domain errors
var (
	ErrProfileNotFound      = NewDomainError("directory", "Find", ErrNotFound, "stakeholder profile not found")
	ErrProfileAlreadyExists = NewDomainError("directory", "Create", ErrAlreadyExists, "stakeholder profile already exists")
	ErrInvalidProfileRole   = NewDomainError("directory", "Validate", ErrInvalidInput, "invalid stakeholder role")
)

// Program domain errors
var (
	ErrSubjectNotFound    = NewDomainError("program", "Find", ErrNotFound, "subject not found")
	ErrInvalidSubjectType = NewDomainError("program", "Validate", ErrInvalidInput, "invalid subject type")
	ErrPastDeadline       = NewDomainError("program", "Validate", ErrInvalidInput, "deadline is in the past")
)

// Invitation domain errors
var (
	ErrInvitationNotFound  = NewDomainError("invitation", "Find", ErrNotFound, "invitation not found")
	ErrDuplicateInvitation = NewDomainError("invitation", "Create", ErrAlreadyExists, "invitation already exists for this recipient and subject")
	ErrInvitationResolved  = NewDomainError("invitation", "Respond", ErrAlreadyResolved, "invitation has already been responded to")
	ErrInvalidRecipient    = NewDomainError("invitation", "Validate", ErrInvalidID, "invalid recipient ID")
)

// Email dispatch errors
var (
	ErrEmailSendFailed = NewDomainError("email", "Send", ErrExternalService, "failed to send email")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
// The HTTP layer maps these to 400 responses (InvalidArgument).
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
