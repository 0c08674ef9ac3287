// Package errors provides centralized error definitions and error handling
// utilities for taskfarmer. It defines domain-specific errors, sentinel
// errors, and classification helpers used to decide whether a worker must
// terminate or may carry on.
//
// # Error Types
//
// Two categories:
//
// Domain-specific errors wrap failures from a subsystem with context:
//   - QueueError: errors touching the shared queue file (open, lock, rewrite)
//   - ConfigError: invalid or missing configuration
//
// Sentinel errors mark well-known conditions for errors.Is checks:
//
//	if errors.Is(err, errors.ErrQueueNotFound) { ... }
//
// # Classification
//
// IsFatal reports whether an error must terminate the worker process.
// Everything touching the queue file or the configuration is fatal; a task
// command exiting non-zero is not an error at all in this taxonomy — it is
// a result, handled by the worker's retry policy.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers can import only this
// package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Queue-related sentinel errors.
var (
	// ErrQueueNotFound indicates the queue file does not exist or cannot
	// be opened. This is an unrecoverable configuration error.
	ErrQueueNotFound = New("queue file not found")
	// ErrQueueLocked indicates the advisory lock could not be acquired.
	ErrQueueLocked = New("queue file lock failed")
	// ErrQueueCorrupted indicates the rewrite step failed partway, leaving
	// the queue file in an unknown state. Continuing could duplicate or
	// drop tasks, so the worker must terminate.
	ErrQueueCorrupted = New("queue file possibly corrupted")
)

// Configuration sentinel errors.
var (
	// ErrMissingQueuePath indicates no queue file path was supplied.
	ErrMissingQueuePath = New("queue file path is required")
	// ErrInvalidOption indicates a numeric option failed validation.
	ErrInvalidOption = New("invalid option value")
)

// QueueError represents an error encountered while operating on the shared
// queue file. The Path field records which file was involved.
//
// Example:
//
//	err := errors.NewQueueError("acquire lock", baseErr).WithPath("/scratch/jobs.txt")
//	fmt.Println(err) // "queue error [path=/scratch/jobs.txt]: acquire lock: ..."
type QueueError struct {
	Op    string
	Path  string
	cause error
}

// NewQueueError creates a new QueueError for the given operation.
func NewQueueError(op string, cause error) *QueueError {
	return &QueueError{Op: op, cause: cause}
}

// WithPath adds the queue file path to the error context.
func (e *QueueError) WithPath(path string) *QueueError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *QueueError) Error() string {
	prefix := "queue error"
	if e.Path != "" {
		prefix = fmt.Sprintf("queue error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Op)
}

// Unwrap returns the underlying error.
func (e *QueueError) Unwrap() error {
	return e.cause
}

// ConfigError represents invalid or missing configuration supplied before
// the worker loop starts.
type ConfigError struct {
	Field string
	cause error
}

// NewConfigError creates a new ConfigError for the given field.
func NewConfigError(field string, cause error) *ConfigError {
	return &ConfigError{Field: field, cause: cause}
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("config error [%s]: %v", e.Field, e.cause)
	}
	return fmt.Sprintf("config error [%s]", e.Field)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether the error must terminate the worker process.
// Queue and configuration errors are always fatal: continuing after a
// failed lock or rewrite risks duplicating or dropping tasks.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var qe *QueueError
	if As(err, &qe) {
		return true
	}
	var ce *ConfigError
	if As(err, &ce) {
		return true
	}
	return Is(err, ErrQueueNotFound) ||
		Is(err, ErrQueueLocked) ||
		Is(err, ErrQueueCorrupted) ||
		Is(err, ErrMissingQueuePath) ||
		Is(err, ErrInvalidOption)
}
