package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"workfloor/internal/store"
)

func directSessionTimes() (start, end time.Time) {
	return testNow.Add(-4 * time.Hour), testNow
}

func TestCreateDirectTask_CompleteAppliesDelta(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	tech := technician()
	start, end := directSessionTimes()

	task, err := svc.CreateDirectTask(context.Background(), DirectTaskInput{
		JobOrderID:     order.ID,
		StartTime:      &start,
		EndTime:        &end,
		UnitsCompleted: 10,
		Complete:       true,
	}, tech)
	if err != nil {
		t.Fatalf("create direct task: %v", err)
	}

	if task.Status != store.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", task.Status)
	}
	if task.TechnicianID != tech.ID {
		t.Errorf("expected task owned by the acting technician")
	}

	got := ms.order(order.ID)
	if got.CompletedQuantity != 10 {
		t.Errorf("expected completed quantity 10, got %d", got.CompletedQuantity)
	}
	if got.ActualHours != 4 {
		t.Errorf("expected 4 actual hours from the session, got %v", got.ActualHours)
	}
	if got.Status != store.JobOrderStatusInProgress {
		t.Errorf("expected order in-progress, got %s", got.Status)
	}
}

func TestCreateDirectTask_CompleteRequiresEndTime(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	_, err := svc.CreateDirectTask(context.Background(), DirectTaskInput{
		JobOrderID:     order.ID,
		UnitsCompleted: 10,
		Complete:       true,
	}, technician())

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateDirectTask_OpenSessionHasNoLedgerEffect(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	task, err := svc.CreateDirectTask(context.Background(), DirectTaskInput{
		JobOrderID:     order.ID,
		UnitsCompleted: 5,
	}, technician())
	if err != nil {
		t.Fatalf("create direct task: %v", err)
	}

	if task.Status != store.TaskStatusInProgress {
		t.Errorf("expected in-progress session, got %s", task.Status)
	}
	if got := ms.order(order.ID).CompletedQuantity; got != 0 {
		t.Errorf("expected no ledger effect for an open session, got %d", got)
	}
	if got := ms.order(order.ID).Status; got != store.JobOrderStatusPending {
		t.Errorf("expected order to stay pending, got %s", got)
	}
}

func TestUpdateDirectTask_CompleteAppliesDeltaOnce(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	tech := technician()
	ctx := context.Background()
	start, end := directSessionTimes()

	task, _ := svc.CreateDirectTask(ctx, DirectTaskInput{
		JobOrderID: order.ID,
		StartTime:  &start,
	}, tech)

	units := 12
	updated, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{
		Status:         store.TaskStatusCompleted,
		EndTime:        &end,
		UnitsCompleted: &units,
	}, tech)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if updated.Status != store.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if got := ms.order(order.ID).CompletedQuantity; got != 12 {
		t.Errorf("expected 12 units on ledger, got %d", got)
	}

	// Closed sessions are immutable.
	_, err = svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{UnitsCompleted: &units}, tech)
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError updating a closed session, got %v", err)
	}
	if got := ms.order(order.ID).CompletedQuantity; got != 12 {
		t.Errorf("expected the delta applied exactly once, got %d", got)
	}
}

func TestUpdateDirectTask_PauseResumeCancelNoLedger(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	tech := technician()
	ctx := context.Background()

	task, _ := svc.CreateDirectTask(ctx, DirectTaskInput{JobOrderID: order.ID, UnitsCompleted: 5}, tech)

	paused, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{Status: store.TaskStatusPaused}, tech)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.Status != store.TaskStatusPaused {
		t.Errorf("expected paused, got %s", paused.Status)
	}

	resumed, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{Status: store.TaskStatusInProgress}, tech)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Status != store.TaskStatusInProgress {
		t.Errorf("expected in-progress, got %s", resumed.Status)
	}

	cancelled, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{Status: store.TaskStatusCancelled}, tech)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != store.TaskStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	if got := ms.order(order.ID).CompletedQuantity; got != 0 {
		t.Errorf("expected no ledger effect from pause/resume/cancel, got %d", got)
	}
}

func TestUpdateDirectTask_LedgerFailureDoesNotCommit(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	tech := technician()
	ctx := context.Background()
	start, end := directSessionTimes()

	task, _ := svc.CreateDirectTask(ctx, DirectTaskInput{JobOrderID: order.ID, StartTime: &start}, tech)

	ms.updateProgressHook = func(o *store.JobOrder) error {
		return store.ErrVersionConflict
	}

	units := 10
	_, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{
		Status:         store.TaskStatusCompleted,
		EndTime:        &end,
		UnitsCompleted: &units,
	}, tech)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError after retries, got %v", err)
	}

	// The transaction holding the task transition must not have committed.
	tx := ms.lastTx()
	if tx == nil || tx.committed {
		t.Error("expected the failing transaction to roll back, not commit")
	}
	if got := ms.order(order.ID).CompletedQuantity; got != 0 {
		t.Errorf("expected ledger untouched, got %d", got)
	}
}

func TestUpdateDirectTask_OverCompletionRejected(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 45, store.JobOrderStatusInProgress)

	tech := technician()
	ctx := context.Background()
	start, end := directSessionTimes()

	task, _ := svc.CreateDirectTask(ctx, DirectTaskInput{JobOrderID: order.ID, StartTime: &start}, tech)

	units := 10
	_, err := svc.UpdateDirectTask(ctx, task.ID, DirectTaskUpdate{
		Status:         store.TaskStatusCompleted,
		EndTime:        &end,
		UnitsCompleted: &units,
	}, tech)

	var overErr *OverCompletionError
	if !errors.As(err, &overErr) {
		t.Fatalf("expected OverCompletionError, got %v", err)
	}
	if got := ms.order(order.ID).CompletedQuantity; got != 45 {
		t.Errorf("expected ledger unchanged, got %d", got)
	}
}

func TestUpdateDirectTask_ReviewedTaskRejected(t *testing.T) {
	ms := newMemStore()
	svc := newTestService(ms)
	order := seedOrder(ms, 50, 0, store.JobOrderStatusPending)

	sup := supervisor()
	task, _ := svc.CreateReviewedTask(context.Background(), TaskInput{JobOrderID: order.ID}, sup)

	_, err := svc.UpdateDirectTask(context.Background(), task.ID, DirectTaskUpdate{Status: store.TaskStatusPaused}, sup)
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError for reviewed-mode task, got %v", err)
	}
}
