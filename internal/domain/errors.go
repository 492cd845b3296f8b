package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInconsistent   = errors.New("store inconsistency")
	ErrArchiveInvalid = errors.New("archive is not valid")
	ErrAmbiguousRoot  = errors.New("more than one documentation root found")
	ErrNoRootFound    = errors.New("no documentation root found")
	ErrInvalidPath    = errors.New("invalid path")
	ErrIO             = errors.New("i/o failure")
	ErrBackupFailed   = errors.New("backup failed")
	ErrNotImplemented = errors.New("not implemented")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found and could not be created
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// NewValidationError builds a ValidationError from a format string
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (project, version, language)
	ResourceID   string // ID of the existing/conflicting resource, if known
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// InconsistencyError reports a natural key that matched more than one row.
// The uniqueness indexes make this impossible unless the data was tampered with.
type InconsistencyError struct {
	ResourceType string
	Key          string
	Count        int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("store inconsistency: %d %ss match %q", e.Count, e.ResourceType, e.Key)
}

func (e *InconsistencyError) StatusCode() int { return http.StatusConflict }

func (e *InconsistencyError) Is(target error) bool {
	return target == ErrInconsistent || target == ErrConflict
}

// ArchiveInvalidError indicates an uploaded archive that is missing, unreadable or corrupt
type ArchiveInvalidError struct {
	Message string
	Err     error
}

func (e *ArchiveInvalidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ArchiveInvalidError) StatusCode() int      { return http.StatusBadRequest }
func (e *ArchiveInvalidError) Is(target error) bool { return target == ErrArchiveInvalid }
func (e *ArchiveInvalidError) Unwrap() error        { return e.Err }

// AmbiguousRootError is returned when more than one "<dir>/index.html" entry exists
type AmbiguousRootError struct {
	Candidates []string
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("archive must contain exactly one documentation root, found %d: %s",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousRootError) StatusCode() int      { return http.StatusBadRequest }
func (e *AmbiguousRootError) Is(target error) bool { return target == ErrAmbiguousRoot }

// NoRootFoundError is returned when no "<dir>/index.html" entry exists
type NoRootFoundError struct{}

func (e *NoRootFoundError) Error() string {
	return "archive must contain a single top-level folder holding index.html"
}

func (e *NoRootFoundError) StatusCode() int      { return http.StatusBadRequest }
func (e *NoRootFoundError) Is(target error) bool { return target == ErrNoRootFound }

// InvalidPathError indicates a path that would escape its root
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string        { return fmt.Sprintf("invalid path %q", e.Path) }
func (e *InvalidPathError) StatusCode() int      { return http.StatusBadRequest }
func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

// IOError wraps a failed filesystem operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string        { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) StatusCode() int      { return http.StatusBadRequest }
func (e *IOError) Is(target error) bool { return target == ErrIO }
func (e *IOError) Unwrap() error        { return e.Err }

// BackupFailedError is returned once every strategy for moving the upload has failed
type BackupFailedError struct {
	Destination string
	Err         error
}

func (e *BackupFailedError) Error() string {
	return fmt.Sprintf("failed twice to move uploaded file to %s: %v", e.Destination, e.Err)
}

func (e *BackupFailedError) StatusCode() int      { return http.StatusBadRequest }
func (e *BackupFailedError) Is(target error) bool { return target == ErrBackupFailed }
func (e *BackupFailedError) Unwrap() error        { return e.Err }
