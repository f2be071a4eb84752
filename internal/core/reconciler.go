package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// ReconcilerStore is the slice of the store the reconciler needs.
type ReconcilerStore interface {
	GetJobOrderByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.JobOrder, error)
	UpdateJobOrderProgress(ctx context.Context, tx store.DBTransaction, order *store.JobOrder) error
}

// Reconciler is the only writer of job-order completion counters and of the
// work-driven status transitions. Both task modes route their ledger effects
// through ApplyDelta so the quantity invariants hold everywhere.
type Reconciler struct {
	store ReconcilerStore
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(s ReconcilerStore) *Reconciler {
	return &Reconciler{store: s}
}

// ApplyDelta applies a unit and hour delta to a job order inside the
// caller's transaction and derives the resulting status.
//
//   - Over-completion is rejected with OverCompletionError, never clamped.
//   - A pending order receiving its first units moves to in-progress and
//     gets its start date stamped.
//   - Reaching the total quantity moves the order to completed and stamps
//     the completion date; further positive deltas are rejected.
//   - The write is guarded by the order's version; a lost-update race
//     surfaces as ConflictError for the caller to retry.
func (r *Reconciler) ApplyDelta(ctx context.Context, tx store.DBTransaction, jobOrderID uuid.UUID, unitsDelta int, hoursDelta float64, now time.Time) (*store.JobOrder, error) {
	order, err := r.store.GetJobOrderByID(ctx, tx, jobOrderID)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "job order", ID: jobOrderID}
		}
		return nil, fmt.Errorf("load job order %s: %w", jobOrderID, err)
	}

	if order.Status == store.JobOrderStatusCancelled {
		return nil, &InvalidStateError{Action: "apply work", Status: string(order.Status)}
	}

	newCompleted := order.CompletedQuantity + unitsDelta
	if newCompleted > order.TotalQuantity {
		return nil, &OverCompletionError{
			JobOrderID: order.ID,
			Attempted:  newCompleted,
			Max:        order.TotalQuantity,
		}
	}
	if newCompleted < 0 {
		newCompleted = 0
	}

	if order.Status == store.JobOrderStatusPending && newCompleted > 0 {
		order.Status = store.JobOrderStatusInProgress
		if order.StartDate == nil {
			start := now
			order.StartDate = &start
		}
	}

	order.CompletedQuantity = newCompleted
	order.ActualHours += hoursDelta

	if newCompleted >= order.TotalQuantity {
		order.Status = store.JobOrderStatusCompleted
		if order.CompletionDate == nil {
			done := now
			order.CompletionDate = &done
		}
	} else if order.Status == store.JobOrderStatusCompleted {
		// A negative delta pulled the order back under its total.
		order.Status = store.JobOrderStatusInProgress
		order.CompletionDate = nil
	}

	order.UpdatedAt = now

	if err := r.store.UpdateJobOrderProgress(ctx, tx, order); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, &ConflictError{JobOrderID: order.ID}
		}
		return nil, fmt.Errorf("update job order %s: %w", order.ID, err)
	}

	return order, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
