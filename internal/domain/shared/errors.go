package shared

import "errors"

// ErrorKind classifies a domain error into one of the fixed failure
// categories the pipelines produce. Every error is scoped to a single
// operation; none is fatal to the process.
type ErrorKind string

const (
	// KindValidation covers malformed or out-of-range input. Always caller-fixable.
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound means a referenced id does not resolve to a record.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindAuthorization means the actor lacks permission for the record.
	KindAuthorization ErrorKind = "AUTHORIZATION"
	// KindStateConflict means the operation is not valid for the entity's current status.
	KindStateConflict ErrorKind = "STATE_CONFLICT"
	// KindDependency means a referenced related entity does not exist or is inactive.
	KindDependency ErrorKind = "DEPENDENCY"
	// KindConflict covers duplicate resources and optimistic-lock failures.
	KindConflict ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error kind. It lets callers
// match categories with errors.Is against the sentinel errors below.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Kind == e.Kind
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(code, message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Code: code, Message: message}
}

// NewStateConflictError creates a state-conflict error
func NewStateConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindStateConflict, Code: code, Message: message}
}

// NewDependencyError creates a dependency error
func NewDependencyError(code, message string) *DomainError {
	return &DomainError{Kind: KindDependency, Code: code, Message: message}
}

// NewConflictError creates a conflict error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewAuthorizationError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewStateConflictError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
)

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool { return isKind(err, KindAuthorization) }

// IsStateConflict reports whether err is a state-conflict error.
func IsStateConflict(err error) bool { return isKind(err, KindStateConflict) }

// IsDependency reports whether err is a dependency error.
func IsDependency(err error) bool { return isKind(err, KindDependency) }

func isKind(err error, kind ErrorKind) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == kind
}
