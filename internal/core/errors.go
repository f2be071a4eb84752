package core

import (
	"fmt"

	"workfloor/internal/auth"
	"workfloor/internal/store"

	"github.com/google/uuid"
)

// ValidationError reports bad input shape or range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an action attempted from a state that does not
// permit it.
type InvalidStateError struct {
	Action string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Action, e.Status)
}

// NotFoundError reports an absent task, job order, operation or alert.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// OverCompletionError reports a delta that would push a job order past its
// total quantity. Carries the attempted and maximum values so callers can
// report both.
type OverCompletionError struct {
	JobOrderID uuid.UUID
	Attempted  int
	Max        int
}

func (e *OverCompletionError) Error() string {
	return fmt.Sprintf("job order %s: completed quantity %d would exceed total %d",
		e.JobOrderID, e.Attempted, e.Max)
}

// ConflictError reports a concurrent-write race on a job order that
// persisted past the retry budget.
type ConflictError struct {
	JobOrderID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("job order %s: concurrent update detected, retry", e.JobOrderID)
}

// PermissionError reports an actor whose role does not permit the action.
type PermissionError struct {
	Action string
	Role   auth.Role
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

func invalidTaskState(action string, status store.TaskStatus) error {
	return &InvalidStateError{Action: action, Status: string(status)}
}
