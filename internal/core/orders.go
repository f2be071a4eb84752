package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// JobOrderInput describes a new production run.
type JobOrderInput struct {
	Number                string
	ProductName           string
	TotalQuantity         int
	Priority              store.Priority
	DueDate               time.Time
	AssignedTechnicianIDs []string
	EstimatedHours        float64
}

// Correction is an explicit administrative override of a job order's
// ledger fields. It replaces the unguarded field update the old dashboard
// backend allowed; every quantity change still passes the same bounds and
// version checks the reconciler enforces.
type Correction struct {
	CompletedQuantity *int
	Status            *store.JobOrderStatus
	Reason            string
}

// CreateJobOrder creates a pending job order.
func (s *Service) CreateJobOrder(ctx context.Context, in JobOrderInput, actor Actor) (*store.JobOrder, error) {
	if !actor.Role.CanPlan() {
		return nil, &PermissionError{Action: "create job orders", Role: actor.Role}
	}
	if strings.TrimSpace(in.Number) == "" {
		return nil, &ValidationError{Field: "jobOrderNumber", Reason: "required"}
	}
	if in.TotalQuantity < 1 {
		return nil, &ValidationError{Field: "totalQuantity", Reason: "must be at least 1"}
	}
	if in.DueDate.IsZero() {
		return nil, &ValidationError{Field: "dueDate", Reason: "required"}
	}
	priority := in.Priority
	if priority == "" {
		priority = store.PriorityMedium
	}
	switch priority {
	case store.PriorityLow, store.PriorityMedium, store.PriorityHigh, store.PriorityUrgent:
	default:
		return nil, &ValidationError{Field: "priority", Reason: "unknown priority"}
	}

	now := s.now()
	order := &store.JobOrder{
		ID:                    uuid.New(),
		Number:                in.Number,
		ProductName:           in.ProductName,
		TotalQuantity:         in.TotalQuantity,
		CompletedQuantity:     0,
		Priority:              priority,
		Status:                store.JobOrderStatusPending,
		DueDate:               in.DueDate,
		AssignedTechnicianIDs: in.AssignedTechnicianIDs,
		EstimatedHours:        in.EstimatedHours,
		Version:               1,
		CreatedBy:             actor.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := s.inTx(ctx, func(tx store.Tx) error {
		return s.store.CreateJobOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetJobOrder returns a job order by ID.
func (s *Service) GetJobOrder(ctx context.Context, id uuid.UUID) (*store.JobOrder, error) {
	order, err := s.store.GetJobOrderByID(ctx, nil, id)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "job order", ID: id}
		}
		return nil, err
	}
	return order, nil
}

// ListJobOrders returns job orders matching the filter.
func (s *Service) ListJobOrders(ctx context.Context, filter store.JobOrderFilter) ([]store.JobOrder, error) {
	return s.store.ListJobOrders(ctx, filter)
}

// GetTask returns a task by ID.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*store.Task, error) {
	task, err := s.store.GetTaskByID(ctx, nil, id)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "task", ID: id}
		}
		return nil, err
	}
	return task, nil
}

// ListJobOrderTasks returns the tasks logged against a job order.
func (s *Service) ListJobOrderTasks(ctx context.Context, jobOrderID uuid.UUID) ([]store.Task, error) {
	return s.store.ListTasksByJobOrder(ctx, jobOrderID)
}

// CorrectJobOrder applies an audited administrative override to ledger
// fields. Bounds are enforced the same way the reconciler enforces them;
// the correction is recorded as a system alert.
func (s *Service) CorrectJobOrder(ctx context.Context, id uuid.UUID, corr Correction, actor Actor) (*store.JobOrder, error) {
	if !actor.Role.IsAdmin() {
		return nil, &PermissionError{Action: "correct job orders", Role: actor.Role}
	}
	if strings.TrimSpace(corr.Reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "required"}
	}
	if corr.CompletedQuantity == nil && corr.Status == nil {
		return nil, &ValidationError{Field: "correction", Reason: "nothing to change"}
	}

	var order *store.JobOrder
	err := s.inTx(ctx, func(tx store.Tx) error {
		var err error
		order, err = s.store.GetJobOrderByID(ctx, tx, id)
		if err != nil {
			if isNoRows(err) {
				return &NotFoundError{Kind: "job order", ID: id}
			}
			return err
		}

		now := s.now()
		if corr.CompletedQuantity != nil {
			q := *corr.CompletedQuantity
			if q < 0 || q > order.TotalQuantity {
				return &OverCompletionError{JobOrderID: order.ID, Attempted: q, Max: order.TotalQuantity}
			}
			order.CompletedQuantity = q
			if q >= order.TotalQuantity {
				order.Status = store.JobOrderStatusCompleted
				if order.CompletionDate == nil {
					order.CompletionDate = &now
				}
			} else if order.Status == store.JobOrderStatusCompleted {
				order.Status = store.JobOrderStatusInProgress
				order.CompletionDate = nil
			}
		}
		if corr.Status != nil {
			order.Status = *corr.Status
		}
		order.UpdatedAt = now

		if err := s.store.UpdateJobOrderProgress(ctx, tx, order); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				return &ConflictError{JobOrderID: order.ID}
			}
			return err
		}

		audit := &store.Alert{
			ID:          uuid.New(),
			Type:        store.AlertTypeSystem,
			Severity:    store.SeverityLow,
			Title:       "Administrative correction",
			Message:     corr.Reason,
			JobOrderID:  &order.ID,
			TargetRoles: reviewerRoles,
			CreatedAt:   now,
		}
		return s.store.CreateAlert(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOperation adds a catalog entry.
func (s *Service) CreateOperation(ctx context.Context, op store.Operation, actor Actor) (*store.Operation, error) {
	if !actor.Role.CanPlan() {
		return nil, &PermissionError{Action: "manage the operation catalog", Role: actor.Role}
	}
	if strings.TrimSpace(op.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if op.StandardTimeMinutes < 0 {
		return nil, &ValidationError{Field: "standardTimeMinutes", Reason: "must not be negative"}
	}

	op.ID = uuid.New()
	op.IsActive = true
	op.CreatedAt = s.now()

	err := s.inTx(ctx, func(tx store.Tx) error {
		return s.store.CreateOperation(ctx, tx, &op)
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// ListOperations returns catalog entries.
func (s *Service) ListOperations(ctx context.Context, includeInactive bool) ([]store.Operation, error) {
	return s.store.ListOperations(ctx, includeInactive)
}

// DeactivateOperation soft-deletes a catalog entry. Existing tasks keep
// their reference.
func (s *Service) DeactivateOperation(ctx context.Context, id uuid.UUID, actor Actor) error {
	if !actor.Role.CanPlan() {
		return &PermissionError{Action: "manage the operation catalog", Role: actor.Role}
	}
	return s.inTx(ctx, func(tx store.Tx) error {
		return s.store.DeactivateOperation(ctx, tx, id)
	})
}
