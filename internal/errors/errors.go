package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error types for the navigation engine
type ErrorType string

const (
	// Provider errors
	ErrorTypeProvider  ErrorType = "provider"
	ErrorTypeCancelled ErrorType = "cancelled"
	ErrorTypeNotFound  ErrorType = "not_found"

	// Tree structure errors
	ErrorTypeInvariant ErrorType = "invariant"
	ErrorTypeFrozen    ErrorType = "frozen"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

var (
	// ErrNotFound is returned when an identifier has no corresponding item.
	ErrNotFound = errors.New("item not found")

	// ErrCancelled marks an operation aborted by its caller before completion.
	ErrCancelled = errors.New("operation cancelled")

	// ErrFrozen is returned when mutating a collection already handed to presentation.
	ErrFrozen = errors.New("collection is frozen")

	// ErrDuplicateIdentity is returned when an identifier is registered to two instances.
	ErrDuplicateIdentity = errors.New("identifier already registered to a different item")

	// ErrCyclicParent is returned when a parent chain never reaches the root.
	ErrCyclicParent = errors.New("cyclic parent chain")
)

// IsCancelled reports whether err came from a cancelled operation,
// either through ErrCancelled or the context package's errors.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Cancelled wraps a context error so that both ErrCancelled and the
// original context error match with errors.Is.
func Cancelled(op string, cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	return &CancelledError{Type: ErrorTypeCancelled, Operation: op, Underlying: cause, Timestamp: time.Now()}
}

// CancelledError is the distinct outcome of a cancelled operation
type CancelledError struct {
	Type       ErrorType
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// Error implements the error interface
func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled: %v", e.Operation, e.Underlying)
}

// Unwrap returns the underlying error
func (e *CancelledError) Unwrap() error {
	return e.Underlying
}

// Is makes every CancelledError match ErrCancelled
func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

// ProviderError represents a failure of an external collaborator behind a provider
type ProviderError struct {
	Type       ErrorType
	Provider   string
	Operation  string
	Target     string
	Underlying error
	Timestamp  time.Time
}

// NewProviderError creates a new provider error with context. The type
// follows the sentinel the error wraps.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{
		Type:       classify(err),
		Provider:   provider,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func classify(err error) ErrorType {
	switch {
	case IsCancelled(err):
		return ErrorTypeCancelled
	case errors.Is(err, ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, ErrFrozen):
		return ErrorTypeFrozen
	}
	return ErrorTypeProvider
}

// WithTarget records the identifier or path the operation worked on
func (e *ProviderError) WithTarget(target string) *ProviderError {
	e.Target = target
	return e
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("provider %s: %s failed for %q: %v", e.Provider, e.Operation, e.Target, e.Underlying)
	}
	return fmt.Sprintf("provider %s: %s failed: %v", e.Provider, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// InvariantError represents a programming defect detected at runtime
type InvariantError struct {
	Type       ErrorType
	Identifier string
	Underlying error
	Timestamp  time.Time
}

// NewInvariantError creates a new invariant error for an identifier
func NewInvariantError(id string, err error) *InvariantError {
	return &InvariantError{
		Type:       ErrorTypeInvariant,
		Identifier: id,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated for %q: %v", e.Identifier, e.Underlying)
}

// Unwrap returns the underlying error
func (e *InvariantError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Type       ErrorType
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Type:       ErrorTypeConfig,
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
