package core

import (
	"context"
	"strings"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// TaskInput describes a new reviewed-mode task created by a supervisor or
// planner against a job order.
type TaskInput struct {
	JobOrderID  uuid.UUID
	OperationID *uuid.UUID
	TaskDate    time.Time
	Notes       string
}

// Submission is the payload a technician hands in when submitting work for
// review.
type Submission struct {
	CompletedUnits int
	ActualMinutes  int
	SerialNumbers  []string
	Notes          string
}

// CreateReviewedTask creates a pending task on a job order, ready to be
// assigned to a technician.
func (s *Service) CreateReviewedTask(ctx context.Context, in TaskInput, actor Actor) (*store.Task, error) {
	if !actor.Role.CanAssign() {
		return nil, &PermissionError{Action: "create tasks", Role: actor.Role}
	}

	now := s.now()
	taskDate := in.TaskDate
	if taskDate.IsZero() {
		taskDate = now
	}

	task := &store.Task{
		ID:          uuid.New(),
		JobOrderID:  in.JobOrderID,
		OperationID: in.OperationID,
		Mode:        store.TaskModeReviewed,
		Status:      store.TaskStatusPending,
		TaskDate:    taskDate,
		Notes:       in.Notes,
		Attempt:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.inTx(ctx, func(tx store.Tx) error {
		// Reject tasks against unknown or cancelled orders up front.
		order, err := s.store.GetJobOrderByID(ctx, tx, in.JobOrderID)
		if err != nil {
			if isNoRows(err) {
				return &NotFoundError{Kind: "job order", ID: in.JobOrderID}
			}
			return err
		}
		if order.Status == store.JobOrderStatusCancelled {
			return &InvalidStateError{Action: "create tasks", Status: string(order.Status)}
		}
		return s.store.CreateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AssignTask hands a pending task to a technician.
func (s *Service) AssignTask(ctx context.Context, taskID, technicianID uuid.UUID, actor Actor) (*store.Task, error) {
	if !actor.Role.CanAssign() {
		return nil, &PermissionError{Action: "assign tasks", Role: actor.Role}
	}
	if technicianID == uuid.Nil {
		return nil, &ValidationError{Field: "technicianId", Reason: "required"}
	}

	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeReviewed {
			return invalidTaskState("assign", task.Status)
		}
		if task.Status != store.TaskStatusPending {
			return invalidTaskState("assign", task.Status)
		}

		now := s.now()
		task.TechnicianID = technicianID
		task.Status = store.TaskStatusAssigned
		task.AssignedAt = &now
		task.UpdatedAt = now
		return s.store.UpdateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// StartTask moves an assigned task to in-progress. A rejected task may be
// restarted too, which opens a new submission cycle.
func (s *Service) StartTask(ctx context.Context, taskID uuid.UUID, actor Actor) (*store.Task, error) {
	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeReviewed {
			return invalidTaskState("start", task.Status)
		}
		if err := requireOwner(task, actor); err != nil {
			return err
		}

		switch task.Status {
		case store.TaskStatusAssigned:
		case store.TaskStatusRejected:
			task.Attempt++
		default:
			return invalidTaskState("start", task.Status)
		}

		now := s.now()
		task.Status = store.TaskStatusInProgress
		task.StartedAt = &now
		task.UpdatedAt = now
		return s.store.UpdateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SubmitTask records a technician's proposed results and moves the task to
// submitted. No ledger effect happens until approval.
func (s *Service) SubmitTask(ctx context.Context, taskID uuid.UUID, sub Submission, actor Actor) (*store.Task, error) {
	if sub.CompletedUnits < 0 {
		return nil, &ValidationError{Field: "completedUnits", Reason: "must not be negative"}
	}
	if sub.ActualMinutes <= 0 {
		return nil, &ValidationError{Field: "actualTime", Reason: "must be positive"}
	}

	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeReviewed {
			return invalidTaskState("submit", task.Status)
		}
		if err := requireOwner(task, actor); err != nil {
			return err
		}
		if task.Status != store.TaskStatusInProgress {
			return invalidTaskState("submit", task.Status)
		}

		now := s.now()
		task.UnitsCompleted = sub.CompletedUnits
		task.ActualMinutes = sub.ActualMinutes
		task.SerialNumbers = sub.SerialNumbers
		if sub.Notes != "" {
			task.Notes = sub.Notes
		}
		task.Status = store.TaskStatusSubmitted
		task.SubmittedAt = &now
		task.UpdatedAt = now
		return s.store.UpdateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ApproveTask accepts a submission and applies its unit and hour delta to
// the owning job order. The task transition and the ledger update commit as
// one unit of work; approving an already-approved task is an error and
// causes no second delta.
func (s *Service) ApproveTask(ctx context.Context, taskID uuid.UUID, actor Actor, feedback string) (*store.Task, error) {
	if !actor.Role.CanReview() {
		return nil, &PermissionError{Action: "approve tasks", Role: actor.Role}
	}

	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeReviewed {
			return invalidTaskState("approve", task.Status)
		}
		if task.Status != store.TaskStatusSubmitted {
			return invalidTaskState("approve", task.Status)
		}

		now := s.now()
		order, err := s.reconciler.ApplyDelta(ctx, tx,
			task.JobOrderID, task.UnitsCompleted, float64(task.ActualMinutes)/60, now)
		if err != nil {
			return err
		}

		task.Status = store.TaskStatusApproved
		task.ReviewerID = &actor.ID
		task.ReviewedAt = &now
		task.ReviewFeedback = feedback
		task.UpdatedAt = now
		if err := s.store.UpdateTask(ctx, tx, task); err != nil {
			return err
		}

		if _, err := s.emitter.Evaluate(ctx, tx, order, now); err != nil {
			return err
		}
		return s.checkTechnicianPerformance(ctx, tx, task.TechnicianID, now)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// RejectTask declines a submission with a mandatory reason. The proposed
// delta is discarded; the technician may restart the task.
func (s *Service) RejectTask(ctx context.Context, taskID uuid.UUID, actor Actor, reason string) (*store.Task, error) {
	if !actor.Role.CanReview() {
		return nil, &PermissionError{Action: "reject tasks", Role: actor.Role}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "required"}
	}

	var task *store.Task
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		task, err = s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Mode != store.TaskModeReviewed {
			return invalidTaskState("reject", task.Status)
		}
		if task.Status != store.TaskStatusSubmitted {
			return invalidTaskState("reject", task.Status)
		}

		now := s.now()
		task.Status = store.TaskStatusRejected
		task.ReviewerID = &actor.ID
		task.ReviewedAt = &now
		task.RejectReason = reason
		task.UpdatedAt = now
		return s.store.UpdateTask(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// requireOwner lets the owning technician (or a reviewer role) act on a
// task.
func requireOwner(task *store.Task, actor Actor) error {
	if actor.Role.CanReview() {
		return nil
	}
	if task.TechnicianID != actor.ID {
		return &PermissionError{Action: "act on another technician's task", Role: actor.Role}
	}
	return nil
}

// checkTechnicianPerformance raises a low-performance alert when the
// technician's rolling efficiency drops under the configured floor.
func (s *Service) checkTechnicianPerformance(ctx context.Context, tx store.Tx, technicianID uuid.UUID, now time.Time) error {
	eff, ok, err := s.store.TechnicianEfficiency(ctx, technicianID, now.Add(-s.emitter.cfg.EfficiencyLookback))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	_, err = s.emitter.EvaluateTechnician(ctx, tx, technicianID, eff, now)
	return err
}
