// Package apperr defines the error kinds the HTTP boundary knows how to map.
// Anything else is reported as an internal error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrRemoteFetch        = errors.New("remote fetch failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

// RemoteFetchError is a failure reaching the provider. Kind is "agents" or "conversations".
type RemoteFetchError struct {
	Kind       string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ElevenLabs %s fetch failed (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("ElevenLabs %s fetch failed", e.Kind)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

func (e *RemoteFetchError) Is(target error) bool { return target == ErrRemoteFetch }

// NewRemoteFetchError wraps err for the given entity kind
func NewRemoteFetchError(kind, endpoint string, statusCode int, err error) *RemoteFetchError {
	return &RemoteFetchError{Kind: kind, Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

// StorageUnavailableError means the database could not be reached
type StorageUnavailableError struct {
	Message string
	Err     error
}

func (e *StorageUnavailableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "storage unavailable"
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func (e *StorageUnavailableError) Is(target error) bool { return target == ErrStorageUnavailable }

func NewStorageUnavailableError(message string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Message: message, Err: err}
}

// Issue is one failed constraint on caller input
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is malformed caller input; Issues carry per-field detail
type ValidationError struct {
	Message string
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation error"
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func NewValidationError(message string, issues ...Issue) *ValidationError {
	return &ValidationError{Message: message, Issues: issues}
}

// NotFoundError is a referenced row that does not exist (or is soft-deleted)
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError is a uniqueness violation caused by caller input
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}
