// Package errors provides sentinel errors and custom error types for the reconcile engine.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for every failure category surfaced by the engine
var (
	// ErrNotFound indicates a missing repository, reference, object or path
	ErrNotFound = errors.New("not found")

	// ErrNothingToCommit indicates the index tree equals the parent tree
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrMergeConflict indicates a merge stopped with unresolved conflicts
	ErrMergeConflict = errors.New("merge conflict")

	// ErrInvalidInput indicates a malformed argument or an operation that makes no sense in the current state
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnbornBranch indicates HEAD points at a branch with no commits
	ErrUnbornBranch = errors.New("branch has no commits yet")

	// ErrIO indicates an underlying read or write failure
	ErrIO = errors.New("i/o failure")

	// ErrUnsupportedOperation indicates a recognised but unimplemented operation
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrMergeInProgress indicates the index still holds unresolved conflicts
	ErrMergeInProgress = errors.New("merge in progress")

	// ErrUncommittedChanges indicates the working tree or index is dirty
	ErrUncommittedChanges = errors.New("uncommitted changes")
)

// ErrNoMergeInProgress is returned when conflict operations run outside a merge.
var ErrNoMergeInProgress = NewInvalidInputError("no merge in progress")

// NotFoundError represents a missing named entity
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is returns true if the target error is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// InvalidInputError describes why an input was rejected
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// Is returns true if the target error is ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(format string, args ...interface{}) *InvalidInputError {
	if len(args) == 0 {
		return &InvalidInputError{Reason: format}
	}
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// IOError wraps a filesystem or object database failure
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// UnsupportedOperationError names the operation that is not implemented
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Op)
}

// Is returns true if the target error is ErrUnsupportedOperation
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(op string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Op: op}
}

// MergeConflictError lists the paths a merge left conflicted
type MergeConflictError struct {
	Paths []string
}

func (e *MergeConflictError) Error() string {
	if len(e.Paths) == 0 {
		return "merge stopped with conflicts"
	}
	return fmt.Sprintf("merge stopped with %d conflict(s): %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(paths []string) *MergeConflictError {
	return &MergeConflictError{Paths: paths}
}

// UncommittedChangesError lists the paths that block an operation
type UncommittedChangesError struct {
	Op    string
	Paths []string
}

func (e *UncommittedChangesError) Error() string {
	msg := fmt.Sprintf("cannot %s: you have uncommitted changes", e.Op)
	if len(e.Paths) > 0 {
		msg += fmt.Sprintf(" (%s)", strings.Join(e.Paths, ", "))
	}
	return msg
}

// Is returns true if the target error is ErrUncommittedChanges
func (e *UncommittedChangesError) Is(target error) bool {
	return target == ErrUncommittedChanges
}

// NewUncommittedChangesError creates a new UncommittedChangesError
func NewUncommittedChangesError(op string, paths []string) *UncommittedChangesError {
	return &UncommittedChangesError{Op: op, Paths: paths}
}

// Kind returns the taxonomy name of err, or "Unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrNothingToCommit):
		return "NothingToCommit"
	case errors.Is(err, ErrMergeConflict):
		return "MergeConflict"
	case errors.Is(err, ErrMergeInProgress):
		return "MergeInProgress"
	case errors.Is(err, ErrUncommittedChanges):
		return "UncommittedChanges"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrUnbornBranch):
		return "UnbornBranch"
	case errors.Is(err, ErrUnsupportedOperation):
		return "UnsupportedOperation"
	case errors.Is(err, ErrIO):
		return "IoFailure"
	default:
		return "Unknown"
	}
}
