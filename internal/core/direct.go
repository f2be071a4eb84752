package core

import (
	"context"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// DirectTaskInput describes a self-reported work session. When Complete is
// set the session is closed immediately and its units hit the ledger in the
// same unit of work as the task insert.
type DirectTaskInput struct {
	JobOrderID     uuid.UUID
	OperationID    *uuid.UUID
	TaskDate       time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	UnitsCompleted int
	Notes          string
	Issues         []string
	Complete       bool
}

// DirectTaskUpdate mutates an open direct-mode task. Status selects the
// transition: completed, paused, cancelled, or in-progress to resume a
// paused session.
type DirectTaskUpdate struct {
	Status         store.TaskStatus
	EndTime        *time.Time
	UnitsCompleted *int
	Notes          string
	Issues         []string
}

// CreateDirectTask opens (and optionally closes) a self-reported work
// session for the acting technician.
func (s *Service) CreateDirectTask(ctx context.Context, in DirectTaskInput, actor Actor) (*store.Task, error) {
	if in.UnitsCompleted < 0 {
		return nil, &ValidationError{Field: "unitsCompleted", Reason: "must not be negative"}
	}
	if in.Complete && in.EndTime == nil {
		return nil, &ValidationError{Field: "endTime", Reason: "required to complete a task"}
	}

	now := s.now()
	start := in.StartTime
	if start == nil {
		t := now
		start = &t
	}
	taskDate := in.TaskDate
	if taskDate.IsZero() {
		taskDate = now
	}

	task := &store.Task{
		ID:             uuid.New(),
		JobOrderID:     in.JobOrderID,
		OperationID:    in.OperationID,
		TechnicianID:   actor.ID,
		Mode:           store.TaskModeDirect,
		Status:         store.TaskStatusInProgress,
		TaskDate:       taskDate,
		StartTime:      start,
		EndTime:        in.EndTime,
		UnitsCompleted: in.UnitsCompleted,
		Notes:          in.Notes,
		Issues:         in.Issues,
		Attempt:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Complete {
		task.Status = store.TaskStatusCompleted
	}

	err := s.inTx(ctx, func(tx store.Tx) error {
		// Re-stamp on retry; the ledger write below can conflict.
		task.Status = store.TaskStatusInProgress
		if in.Complete {
			task.Status = store.TaskStatusCompleted
		}

		if err := s.store.CreateTask(ctx, tx, task); err != nil {
			return err
		}
		if !in.Complete {
			return nil
		}

		order, err := s.reconciler.ApplyDelta(ctx, tx,
			task.JobOrderID, task.UnitsCompleted, task.DurationHours(), now)
		if err != nil {
			return err
		}
		_, err = s.emitter.Evaluate(ctx, tx, order, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateDirectTask transitions an open direct-mode task. Completing it
// applies the unit delta to the job order inside the same transaction; if
// the ledger update fails the task transition does not commit.
func (s *Service) UpdateDirectTask(ctx context.Context, taskID uuid.UUID, upd DirectTaskUpdate, actor Actor) (*store.Task, error) {
	if upd.UnitsCompleted != nil && *upd.UnitsCompleted < 0 {
		return nil, &ValidationError{Field: "unitsCompleted", Reason: "must not be negative"}
	}

	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeDirect {
			return invalidTaskState("update", task.Status)
		}
		if err := requireOwner(task, actor); err != nil {
			return err
		}
		// Closed sessions are immutable; their units already hit the ledger.
		if task.Status == store.TaskStatusCompleted || task.Status == store.TaskStatusCancelled {
			return invalidTaskState("update", task.Status)
		}

		now := s.now()
		if upd.UnitsCompleted != nil {
			task.UnitsCompleted = *upd.UnitsCompleted
		}
		if upd.EndTime != nil {
			task.EndTime = upd.EndTime
		}
		if upd.Notes != "" {
			task.Notes = upd.Notes
		}
		if len(upd.Issues) > 0 {
			task.Issues = upd.Issues
		}

		switch upd.Status {
		case store.TaskStatusCompleted:
			if task.Status != store.TaskStatusInProgress {
				return invalidTaskState("complete", task.Status)
			}
			if task.EndTime == nil {
				return &ValidationError{Field: "endTime", Reason: "required to complete a task"}
			}
			task.Status = store.TaskStatusCompleted
			task.UpdatedAt = now
			if err := s.store.UpdateTask(ctx, tx, task); err != nil {
				return err
			}
			order, err := s.reconciler.ApplyDelta(ctx, tx,
				task.JobOrderID, task.UnitsCompleted, task.DurationHours(), now)
			if err != nil {
				return err
			}
			_, err = s.emitter.Evaluate(ctx, tx, order, now)
			return err

		case store.TaskStatusPaused:
			if task.Status != store.TaskStatusInProgress {
				return invalidTaskState("pause", task.Status)
			}
			task.Status = store.TaskStatusPaused

		case store.TaskStatusCancelled:
			if task.Status != store.TaskStatusInProgress && task.Status != store.TaskStatusPaused {
				return invalidTaskState("cancel", task.Status)
			}
			task.Status = store.TaskStatusCancelled

		case store.TaskStatusInProgress:
			if task.Status != store.TaskStatusPaused {
				return invalidTaskState("resume", task.Status)
			}
			task.Status = store.TaskStatusInProgress

		case "":
			// Field-only update, no transition.

		default:
			return &ValidationError{Field: "status", Reason: "unknown target status"}
		}

		task.UpdatedAt = now
		return s.store.UpdateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
