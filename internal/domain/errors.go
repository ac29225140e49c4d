package domain

import (
	"errors"
	"fmt"
)

// ErrCyclicDependency indicates an edge or parent assignment that would
// close a cycle in the dependency graph.
var ErrCyclicDependency = errors.New("dependency cycle")

// ErrSelfReference indicates a task referencing itself as dependency,
// blocker or parent.
var ErrSelfReference = errors.New("self reference")

// ErrHasDependents indicates a delete blocked by tasks that still
// depend on the entity.
var ErrHasDependents = errors.New("has dependents")

// ErrHasSubtasks indicates a delete blocked by remaining subtasks.
var ErrHasSubtasks = errors.New("has subtasks")

// ErrInvalidTransition indicates a status change the state machine does
// not accept.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOutOfRange indicates a numeric input outside its accepted bounds.
var ErrOutOfRange = errors.New("value out of range")

// ErrUnauthorized indicates a caller without access to the requested
// organization scope.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConcurrentModification indicates the entity changed between read
// and write. The operation is safe to retry.
var ErrConcurrentModification = errors.New("concurrent modification")

// ErrInvalidReference indicates a reference to a missing entity or one
// outside the caller's organization.
var ErrInvalidReference = errors.New("invalid reference")

// ErrRecoveryExpired indicates a trash entry past its retention window.
var ErrRecoveryExpired = errors.New("recovery window elapsed")

// InvalidTransitionError reports a rejected status change with the
// current and requested states.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition from %s to %s", e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// OutOfRangeError reports a numeric input together with its accepted bounds.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// InvalidReferenceError reports which field pointed at a missing or
// foreign entity.
type InvalidReferenceError struct {
	Field  string
	ID     string
	Reason string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.ID, e.Reason)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }
