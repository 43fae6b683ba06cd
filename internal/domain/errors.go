// Package domain defines the core value objects and typed errors for smolquery.
package domain

import "fmt"

// ValidationError indicates a malformed or incomplete payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError indicates a missing or unusable credential.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ExecutionError wraps a failure reported by the upstream query service.
// The upstream message is preserved inside the "execution failed" envelope.
type ExecutionError struct {
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string { return e.Message }

func (e *ExecutionError) Unwrap() error { return e.Cause }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrAuthentication creates an AuthenticationError with a formatted message.
func ErrAuthentication(format string, args ...interface{}) *AuthenticationError {
	return &AuthenticationError{Message: fmt.Sprintf(format, args...)}
}

// ErrExecution wraps an upstream failure, prefixing its message so callers can
// tell upstream query-service errors apart from local ones.
func ErrExecution(cause error) *ExecutionError {
	return &ExecutionError{Message: "execution failed: " + cause.Error(), Cause: cause}
}
