// Package apperrors defines the typed domain errors surfaced by the trip
// inventory engine. Handlers map these to HTTP statuses with errors.As;
// repositories and services attach enough context that callers can explain
// the failure without a second lookup.
package apperrors

import (
	"fmt"
	"time"
)

// NotFoundError reports that an operator/route/bus/trip/seat reference
// did not resolve
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for a resource and id
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ScheduleConflictError reports that a bus is already committed to a trip
// overlapping the proposed window
type ScheduleConflictError struct {
	BusID         string
	WindowStart   time.Time
	WindowEnd     time.Time
	ConflictStart time.Time
	ConflictEnd   time.Time
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf(
		"bus %s is already scheduled from %s to %s, overlapping the proposed window %s to %s",
		e.BusID,
		e.ConflictStart.Format(time.RFC3339), e.ConflictEnd.Format(time.RFC3339),
		e.WindowStart.Format(time.RFC3339), e.WindowEnd.Format(time.RFC3339),
	)
}

// UnknownSeatTypeError reports a custom layout referencing a seat type that
// does not exist for the bus's operator
type UnknownSeatTypeError struct {
	TypeName   string
	OperatorID string
}

func (e *UnknownSeatTypeError) Error() string {
	return fmt.Sprintf("seat type %q is not defined for operator %s", e.TypeName, e.OperatorID)
}

// StateConflictError reports a seat transition whose expected prior state
// did not match the recorded state. This is the compare-and-swap failure
// that prevents double booking; callers may re-read and retry if the seat
// is genuinely still wanted.
type StateConflictError struct {
	TripID   string
	SeatID   string
	Expected string
	Actual   string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("seat %s on trip %s is %s, expected %s",
		e.SeatID, e.TripID, e.Actual, e.Expected)
}

// LayoutInUseError reports a seat layout replacement refused because trips
// on the bus still hold seat state rows referencing the current seats.
// Replacing the layout would orphan or erase live booking inventory, so the
// whole operation aborts.
type LayoutInUseError struct {
	BusID string
}

func (e *LayoutInUseError) Error() string {
	return fmt.Sprintf("bus %s has trips with seat inventory; its layout cannot be replaced", e.BusID)
}

// InvalidInputError reports malformed input such as an inverted time window
// or a non-positive capacity
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// NewInvalidInput creates an InvalidInputError with the given reason
func NewInvalidInput(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
