package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested record was not found upstream.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates that required credentials are not configured.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrServiceUnavailable indicates that an external service is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NotFoundError provides details about a record that was not found upstream.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// CredentialsError reports a missing process-level secret. Errors of this
// class are configuration failures: they are surfaced immediately and never
// retried.
type CredentialsError struct {
	Service  string
	Variable string
}

// Error implements the error interface.
func (e *CredentialsError) Error() string {
	return fmt.Sprintf("%s credentials not configured: %s must be set", e.Service, e.Variable)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *CredentialsError) Unwrap() error {
	return ErrMissingCredentials
}

// ExternalAPIError provides details about a non-success response from an
// external service, carrying the upstream status and body for diagnostics.
type ExternalAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ExternalAPIError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err indicates a record missing upstream.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingCredentials reports whether err indicates unset credentials.
func IsMissingCredentials(err error) bool {
	return errors.Is(err, ErrMissingCredentials)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewCredentialsError creates a new CredentialsError.
func NewCredentialsError(service, variable string) *CredentialsError {
	return &CredentialsError{
		Service:  service,
		Variable: variable,
	}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
