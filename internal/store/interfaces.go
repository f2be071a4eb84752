package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by version-checked job-order writes when
// the row changed underneath the caller. Callers retry or surface a
// conflict to the client.
var ErrVersionConflict = errors.New("job order version conflict")

// DBTransaction defines the methods shared by *sql.DB and *sql.Tx.
// This allows us to pass either a connection pool or an active transaction
// to the repository methods.
type DBTransaction interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Tx interface {
	DBTransaction
	Commit() error
	Rollback() error
}

// JobOrderFilter narrows job-order listings.
type JobOrderFilter struct {
	Status   JobOrderStatus
	Priority Priority
	Limit    int
	Offset   int
}

// AlertFilter narrows alert listings.
type AlertFilter struct {
	UnresolvedOnly bool
	Type           AlertType
	JobOrderID     *uuid.UUID
	Limit          int
	Offset         int
}

// OperationStore handles the read-mostly operation catalog.
type OperationStore interface {
	// CreateOperation inserts a new catalog entry.
	CreateOperation(ctx context.Context, tx DBTransaction, op *Operation) error

	// GetOperationByID returns a catalog entry by its ID.
	GetOperationByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// ListOperations returns catalog entries, optionally including
	// deactivated ones.
	ListOperations(ctx context.Context, includeInactive bool) ([]Operation, error)

	// DeactivateOperation soft-deletes a catalog entry.
	DeactivateOperation(ctx context.Context, tx DBTransaction, id uuid.UUID) error
}

// JobOrderStore handles persistence of job orders.
type JobOrderStore interface {
	// CreateJobOrder inserts a new job order.
	CreateJobOrder(ctx context.Context, tx DBTransaction, order *JobOrder) error

	// GetJobOrderByID returns a job order by its ID. Reads through tx when
	// given so reconciler reads see their own transaction.
	GetJobOrderByID(ctx context.Context, tx DBTransaction, id uuid.UUID) (*JobOrder, error)

	// ListJobOrders returns job orders matching the filter, newest first.
	ListJobOrders(ctx context.Context, filter JobOrderFilter) ([]JobOrder, error)

	// ListActiveJobOrders returns orders that are neither completed nor
	// cancelled, for periodic alert evaluation.
	ListActiveJobOrders(ctx context.Context) ([]JobOrder, error)

	// UpdateJobOrderProgress writes the reconciler-owned columns
	// (completed_quantity, actual_hours, status, start/completion dates)
	// guarded by the order's Version. Returns ErrVersionConflict when the
	// guard fails. On success the order's Version is bumped in place.
	UpdateJobOrderProgress(ctx context.Context, tx DBTransaction, order *JobOrder) error
}

// TaskStore handles persistence of tasks.
type TaskStore interface {
	// CreateTask inserts a new task.
	CreateTask(ctx context.Context, tx DBTransaction, task *Task) error

	// GetTaskByID returns a task by its ID.
	GetTaskByID(ctx context.Context, tx DBTransaction, id uuid.UUID) (*Task, error)

	// UpdateTask persists mutable task fields.
	UpdateTask(ctx context.Context, tx DBTransaction, task *Task) error

	// ListTasksByJobOrder returns all tasks for a job order, oldest first.
	ListTasksByJobOrder(ctx context.Context, jobOrderID uuid.UUID) ([]Task, error)

	// TechnicianEfficiency returns the technician's rolling efficiency over
	// work since the given time: standard minutes earned / actual minutes
	// spent, from approved and completed tasks joined to the operation
	// catalog. ok is false when there is no measurable work.
	TechnicianEfficiency(ctx context.Context, technicianID uuid.UUID, since time.Time) (eff float64, ok bool, err error)

	// ListRecentTechnicianIDs returns technicians with approved or
	// completed work since the given time.
	ListRecentTechnicianIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

// AlertStore handles persistence of alerts.
type AlertStore interface {
	// CreateAlert inserts a new alert.
	CreateAlert(ctx context.Context, tx DBTransaction, alert *Alert) error

	// HasUnresolvedAlert reports whether an unresolved alert of the given
	// type already exists for the related entity. Used for dedupe before
	// insert.
	HasUnresolvedAlert(ctx context.Context, tx DBTransaction, alertType AlertType, relatedID uuid.UUID) (bool, error)

	// ListAlerts returns alerts matching the filter, newest first.
	ListAlerts(ctx context.Context, filter AlertFilter) ([]Alert, error)

	// MarkAlertRead flags an alert as read.
	MarkAlertRead(ctx context.Context, tx DBTransaction, id uuid.UUID) error

	// MarkAlertResolved flags an alert as resolved and records who and when.
	MarkAlertResolved(ctx context.Context, tx DBTransaction, id uuid.UUID, resolvedBy uuid.UUID, resolvedAt time.Time) error

	// CountUnresolvedAlerts returns the number of unresolved alerts.
	CountUnresolvedAlerts(ctx context.Context) (int64, error)
}
