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
	ErrInvalidPeriod   = errors.New("period start must not be after period end")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyCompleted = errors.New("already completed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
	ErrOptimisticLock      = errors.New("optimistic lock failure")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "objective", "progress", "ledger"
	Op      string // Operation that failed, e.g., "Create", "RecordProgress"
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

// Objective domain errors
var (
	ErrObjectiveNotFound   = NewDomainError("objective", "Get", ErrNotFound, "objective not found")
	ErrInvalidTargetCount  = NewDomainError("objective", "Validate", ErrValueOutOfRange, "target count must be at least 1")
	ErrNegativePoints      = NewDomainError("objective", "Validate", ErrNegativeValue, "points must not be negative")
	ErrInvalidDifficulty   = NewDomainError("objective", "Validate", ErrInvalidInput, "invalid difficulty")
	ErrInvalidPrivacy      = NewDomainError("objective", "Validate", ErrInvalidInput, "invalid privacy setting")
	ErrObjectiveTitleEmpty = NewDomainError("objective", "Validate", ErrEmptyValue, "objective title is required")
)

// Progress domain errors
var (
	ErrProgressNotFound = NewDomainError("progress", "Get", ErrNotFound, "progress record not found")
	ErrAlreadyAssigned  = NewDomainError("progress", "Assign", ErrAlreadyExists, "objective already assigned to member")
	ErrNegativeCount    = NewDomainError("progress", "RecordProgress", ErrNegativeValue, "progress count must not be negative")
	ErrCompletionRace   = NewDomainError("progress", "RecordProgress", ErrConcurrencyConflict, "lost race on completion transition")
)

// Ledger domain errors
var (
	ErrInvalidSourceType = NewDomainError("ledger", "Validate", ErrInvalidInput, "invalid ledger source type")
	ErrLedgerMemberEmpty = NewDomainError("ledger", "Validate", ErrEmptyValue, "member ID is required")
)

// Engagement domain errors
var (
	ErrInvalidActionType = NewDomainError("engagement", "Validate", ErrInvalidInput, "invalid engagement action type")
	ErrNegativeHours     = NewDomainError("engagement", "Validate", ErrNegativeValue, "hours contributed must not be negative")
)

// Report domain errors
var (
	ErrReportNotFound    = NewDomainError("report", "Get", ErrNotFound, "impact report not found")
	ErrMissingCaller     = NewDomainError("report", "Generate", ErrUnauthorized, "caller identity is required")
	ErrReportPeriod      = NewDomainError("report", "Generate", ErrInvalidPeriod, "report period start is after end")
	ErrReportTitleEmpty  = NewDomainError("report", "Validate", ErrEmptyValue, "report title is required")
	ErrOrgAccessDenied   = NewDomainError("report", "Generate", ErrForbidden, "caller may not report on this organization")
	ErrMemberAccess      = NewDomainError("progress", "RecordProgress", ErrUnauthorized, "caller may not mutate another member's progress")
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
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsConcurrencyConflict checks if the error is a lost optimistic-concurrency race.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrOptimisticLock)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrConcurrencyConflict)
}
