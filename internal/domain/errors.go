package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the transport layer so callers can distinguish
// a bad submission from a missing record from a pipeline-ordering
// violation.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodePreconditionFailed  = "PRECONDITION_FAILED"
	CodeCollaboratorFailure = "EXTERNAL_COLLABORATOR_FAILURE"
)

// DomainError carries a stable code alongside the human-readable message.
type DomainError struct {
	Code      string
	Message   string
	Err       error
	Retryable bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on the error code, so wrapped instances of a sentinel
// compare equal to the sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code && e.Message == de.Message
	}
	return false
}

// NewDomainError creates a domain error wrapping an underlying cause.
func NewDomainError(code, message string, err error, retryable bool) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// WithCause returns a copy of a sentinel error carrying the underlying
// cause.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{
		Code:      e.Code,
		Message:   e.Message,
		Err:       err,
		Retryable: e.Retryable,
	}
}

// Common domain errors
var (
	ErrInvalidInput = &DomainError{
		Code:      CodeInvalidInput,
		Message:   "Invalid audit submission",
		Retryable: false,
	}

	ErrAuditNotFound = &DomainError{
		Code:      CodeNotFound,
		Message:   "Audit not found",
		Retryable: false,
	}

	ErrContractNotFound = &DomainError{
		Code:      CodeNotFound,
		Message:   "Verified contract not found",
		Retryable: false,
	}

	ErrOwnerNotFound = &DomainError{
		Code:      CodeNotFound,
		Message:   "Owner not found",
		Retryable: false,
	}

	ErrNotValidated = &DomainError{
		Code:      CodePreconditionFailed,
		Message:   "Audit must be validated before publishing",
		Retryable: false,
	}

	ErrAlreadyPublished = &DomainError{
		Code:      CodePreconditionFailed,
		Message:   "Audit has already been published",
		Retryable: false,
	}

	ErrAnalysisUnavailable = &DomainError{
		Code:      CodeCollaboratorFailure,
		Message:   "External analysis provider failed",
		Retryable: true,
	}

	ErrAttestationFailed = &DomainError{
		Code:      CodeCollaboratorFailure,
		Message:   "External attestation provider failed",
		Retryable: true,
	}
)

// CodeOf extracts the domain error code, defaulting to an internal
// marker for unclassified errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}

// IsRetryable reports whether the caller may retry the failed operation.
func IsRetryable(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}
