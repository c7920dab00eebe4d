package domain

import "fmt"

// Error types for consistent error handling across the service.

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrCatalogUnavailable indicates that no product data has ever been
// obtained: the upstream fetch failed and there is no stale snapshot to
// fall back to. The orchestrator turns this into a user-safe reply.
type ErrCatalogUnavailable struct {
	Err error
}

func (e *ErrCatalogUnavailable) Error() string {
	return fmt.Sprintf("no catalog data available: %v", e.Err)
}

func (e *ErrCatalogUnavailable) Unwrap() error {
	return e.Err
}

// ErrModelOverloaded indicates the language model rejected the call for
// capacity reasons. Recovered locally into a canned retry-later message.
type ErrModelOverloaded struct {
	Err error
}

func (e *ErrModelOverloaded) Error() string {
	return fmt.Sprintf("language model overloaded: %v", e.Err)
}

func (e *ErrModelOverloaded) Unwrap() error {
	return e.Err
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}
