package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Orchestration-specific errors

var (
	// ErrUnknownToken indicates a token symbol absent from the resolution table
	ErrUnknownToken = errors.New("unknown token")

	// ErrUnsupportedNetwork indicates a network outside the effective support set
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrProviderTransient indicates a single provider call failed in a way
	// that does not invalidate trying another provider
	ErrProviderTransient = errors.New("provider temporarily unavailable")

	// ErrAllProvidersFailed indicates every candidate provider failed to quote
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrExternalService indicates the downstream execution endpoint returned
	// a non-success status
	ErrExternalService = errors.New("external service error")

	// ErrSlippageExceeded indicates realized output deviated from the quote
	// beyond the configured tolerance
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")

	// ErrInsufficientLiquidity indicates a provider cannot fill the requested amount
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is allows errors.Is(err, ErrInvalidInput) to match validation errors
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ProviderError wraps a failure from a named provider so selection can report
// which provider produced which cause.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the wrapped error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// AggregateError collects per-provider failures behind ErrAllProvidersFailed.
type AggregateError struct {
	Causes []error
}

// Error implements the error interface
func (e *AggregateError) Error() string {
	if len(e.Causes) == 0 {
		return ErrAllProvidersFailed.Error()
	}
	parts := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		parts = append(parts, c.Error())
	}
	return fmt.Sprintf("%s: %s", ErrAllProvidersFailed.Error(), strings.Join(parts, "; "))
}

// Is allows errors.Is(err, ErrAllProvidersFailed) to match aggregates
func (e *AggregateError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// NewAggregateError creates an aggregate from individual provider failures
func NewAggregateError(causes []error) *AggregateError {
	return &AggregateError{Causes: causes}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// IsTerminal reports whether an error must not be retried against another
// provider. Validation and resolution failures are terminal; transient
// provider failures are not.
func IsTerminal(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnknownToken),
		errors.Is(err, ErrUnsupportedNetwork),
		errors.Is(err, ErrAllProvidersFailed),
		errors.Is(err, ErrSlippageExceeded):
		return true
	}
	return false
}
