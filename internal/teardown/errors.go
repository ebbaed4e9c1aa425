package teardown

import (
	"errors"
	"fmt"
)

// UsageError reports an invalid selector. No provider calls are made.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ResolutionError reports a domain ID that did not resolve to a domain.
type ResolutionError struct {
	DomainID string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("domain %s could not be resolved: %v", e.DomainID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// DeleteError reports a single resource that could not be deleted.
type DeleteError struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// DomainDeleteError reports a failed domain delete call.
type DomainDeleteError struct {
	DomainID string
	Err      error
}

func (e *DomainDeleteError) Error() string {
	return fmt.Sprintf("failed to delete domain %s: %v", e.DomainID, e.Err)
}

func (e *DomainDeleteError) Unwrap() error {
	return e.Err
}

// CleanupError represents accumulated errors from sibling deletions.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// Add appends err if it is not nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was added.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns e when it holds errors and nil otherwise.
func (e *CleanupError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
