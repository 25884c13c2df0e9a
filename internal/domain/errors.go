// Package domain defines core types, interfaces, and errors for the
// dashboard query backend.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// CredentialFault distinguishes why authentication failed.
type CredentialFault string

const (
	// CredentialMissing means the request carried no credential at all.
	CredentialMissing CredentialFault = "missing"
	// CredentialInvalid means a credential was presented but rejected.
	CredentialInvalid CredentialFault = "invalid"
)

// UnauthenticatedError indicates a missing or rejected credential. There is
// no anonymous fallback: every UnauthenticatedError terminates the request.
type UnauthenticatedError struct {
	Fault   CredentialFault
	Message string
}

func (e *UnauthenticatedError) Error() string { return e.Message }

// ExecutionError indicates the external query executor failed or timed out.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrCredentialMissing creates an UnauthenticatedError for an absent credential.
func ErrCredentialMissing(format string, args ...interface{}) *UnauthenticatedError {
	return &UnauthenticatedError{Fault: CredentialMissing, Message: fmt.Sprintf(format, args...)}
}

// ErrCredentialInvalid creates an UnauthenticatedError for a rejected credential.
func ErrCredentialInvalid(format string, args ...interface{}) *UnauthenticatedError {
	return &UnauthenticatedError{Fault: CredentialInvalid, Message: fmt.Sprintf(format, args...)}
}

// ErrExecution creates an ExecutionError with a formatted message.
func ErrExecution(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}
