package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAirportNotFound      = errors.New("airport not found")
	ErrRouteNotFound        = errors.New("route not found")
	ErrAirplaneTypeNotFound = errors.New("airplane type not found")
	ErrAirplaneNotFound     = errors.New("airplane not found")
	ErrCrewNotFound         = errors.New("crew not found")
	ErrFlightNotFound       = errors.New("flight not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrUserNotFound         = errors.New("user not found")

	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthenticated     = errors.New("authentication credentials were not provided")
	ErrForbidden           = errors.New("you do not have permission to perform this action")
	ErrConflict            = errors.New("conflicting concurrent write")
	ErrOutOfRange          = errors.New("value out of range")
	ErrSeatTaken           = errors.New("seat already taken")
	ErrInvalidSchedule     = errors.New("invalid flight schedule")
	ErrDuplicateCrew       = errors.New("this person already exists")
	ErrDuplicateName       = errors.New("name already exists")
	ErrInternalServerError = errors.New("internal server error")
)

// ValidationError carries field-level messages. Cause is the sentinel the
// failure is classified under (ErrOutOfRange, ErrSeatTaken, ...), so callers
// can still match with errors.Is.
type ValidationError struct {
	Cause  error
	Fields map[string][]string
}

func NewValidationError(cause error) *ValidationError {
	return &ValidationError{Cause: cause, Fields: map[string][]string{}}
}

// Validation is a shorthand for a single-field failure.
func Validation(cause error, field, message string) *ValidationError {
	v := NewValidationError(cause)
	v.Add(field, message)
	return v
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge copies the fields of other into e. A nil other is a no-op.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	if e.Cause == nil {
		e.Cause = other.Cause
	}
	for field, messages := range other.Fields {
		e.Fields[field] = append(e.Fields[field], messages...)
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e as an error only when it holds at least one field.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
