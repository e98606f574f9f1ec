package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workflow taxonomy. Services return structured
// errors that unwrap to these; callers classify with errors.Is or the Is*
// helpers below.
var (
	// ErrNotFound: a referenced car, report, request or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation was attempted against a row that is not
	// in the required source state, detected before any write.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrConflict: a conditional write affected zero rows because another
	// actor changed the state concurrently. Distinct from ErrInvalidState so
	// callers can choose to re-fetch and retry once.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrUnauthorized: the caller identity does not own the row it is trying
	// to transition.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed input: negative amounts, end before
// start, a missing required date. Always recoverable by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError carries which entity was missing.
type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError carries the state the row was in and the transition that
// was attempted against it.
type InvalidStateError struct {
	Entity    string
	ID        int32
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d is %s, cannot %s", e.Entity, e.ID, e.Current, e.Attempted)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// ConflictError is surfaced when the store's conditional update reports zero
// rows affected: the expected prior state was gone by the time the write ran.
type ConflictError struct {
	Entity    string
	ID        int32
	Attempted string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d changed concurrently, cannot %s", e.Entity, e.ID, e.Attempted)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// StoreError wraps a store-level transport failure. The only class eligible
// for caller-directed retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
