package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnknownNode      = errors.New("unknown node")
	ErrDuplicateEdge    = errors.New("duplicate edge")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConnectError represents a refused connection between two nodes
type ConnectError struct {
	Source string
	Target string
	Reason error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s: %v", e.Source, e.Target, e.Reason)
}

func (e *ConnectError) Unwrap() error {
	return e.Reason
}

// LoadError reports a recoverable failure to load a resource. The component
// that returns it has already fallen back to its empty state.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
