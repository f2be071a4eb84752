package postgres

import (
	"context"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const taskColumns = `id, job_order_id, operation_id, technician_id, mode, status, task_date,
	start_time, end_time, units_completed, actual_minutes, serial_numbers, notes, issues,
	attempt, assigned_at, started_at, submitted_at, reviewed_at, reviewer_id,
	review_feedback, reject_reason, created_at, updated_at`

// CreateTask inserts a new task row.
func (s *Store) CreateTask(ctx context.Context, tx store.DBTransaction, task *store.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		task.ID, task.JobOrderID, task.OperationID, nullableUUID(task.TechnicianID),
		task.Mode, task.Status, task.TaskDate,
		task.StartTime, task.EndTime,
		task.UnitsCompleted, task.ActualMinutes,
		pq.Array(task.SerialNumbers), task.Notes, pq.Array(task.Issues),
		task.Attempt,
		task.AssignedAt, task.StartedAt, task.SubmittedAt, task.ReviewedAt,
		task.ReviewerID, task.ReviewFeedback, task.RejectReason,
		task.CreatedAt, task.UpdatedAt,
	)
	return err
}

// GetTaskByID returns a task. Reads through tx when given.
func (s *Store) GetTaskByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	executor := s.getExecutor(tx)
	return scanTask(executor.QueryRowContext(ctx, query, id))
}

// UpdateTask persists the mutable task fields.
func (s *Store) UpdateTask(ctx context.Context, tx store.DBTransaction, task *store.Task) error {
	query := `
		UPDATE tasks
		SET technician_id = $1, status = $2, start_time = $3, end_time = $4,
			units_completed = $5, actual_minutes = $6, serial_numbers = $7,
			notes = $8, issues = $9, attempt = $10,
			assigned_at = $11, started_at = $12, submitted_at = $13, reviewed_at = $14,
			reviewer_id = $15, review_feedback = $16, reject_reason = $17, updated_at = $18
		WHERE id = $19
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		nullableUUID(task.TechnicianID), task.Status,
		task.StartTime, task.EndTime,
		task.UnitsCompleted, task.ActualMinutes, pq.Array(task.SerialNumbers),
		task.Notes, pq.Array(task.Issues), task.Attempt,
		task.AssignedAt, task.StartedAt, task.SubmittedAt, task.ReviewedAt,
		task.ReviewerID, task.ReviewFeedback, task.RejectReason, task.UpdatedAt,
		task.ID,
	)
	return err
}

// ListTasksByJobOrder returns all tasks for a job order, oldest first.
func (s *Store) ListTasksByJobOrder(ctx context.Context, jobOrderID uuid.UUID) ([]store.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE job_order_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, jobOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []store.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// TechnicianEfficiency computes standard minutes earned over actual minutes
// spent for a technician's accepted work since the given time. Tasks
// without an operation reference carry no standard time and are skipped.
func (s *Store) TechnicianEfficiency(ctx context.Context, technicianID uuid.UUID, since time.Time) (float64, bool, error) {
	query := `
		SELECT COALESCE(SUM(o.standard_time_minutes * t.units_completed), 0),
			COALESCE(SUM(t.actual_minutes), 0)
		FROM tasks t
		JOIN operations o ON t.operation_id = o.id
		WHERE t.technician_id = $1
			AND t.status IN ($2, $3)
			AND t.updated_at >= $4
			AND t.actual_minutes > 0
	`

	var earned, spent int64
	err := s.db.QueryRowContext(ctx, query,
		technicianID, store.TaskStatusApproved, store.TaskStatusCompleted, since,
	).Scan(&earned, &spent)
	if err != nil {
		return 0, false, err
	}
	if spent == 0 {
		return 0, false, nil
	}
	return float64(earned) / float64(spent), true, nil
}

// ListRecentTechnicianIDs returns technicians with accepted work since the
// given time.
func (s *Store) ListRecentTechnicianIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT technician_id
		FROM tasks
		WHERE technician_id IS NOT NULL
			AND status IN ($1, $2)
			AND updated_at >= $3
	`

	rows, err := s.db.QueryContext(ctx, query,
		store.TaskStatusApproved, store.TaskStatusCompleted, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullableUUID maps the zero UUID to NULL for columns that are unset until
// assignment.
func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func scanTask(row rowScanner) (*store.Task, error) {
	var task store.Task
	var operationID, technicianID, reviewerID uuid.NullUUID
	var serials, issues pq.StringArray

	err := row.Scan(
		&task.ID, &task.JobOrderID, &operationID, &technicianID,
		&task.Mode, &task.Status, &task.TaskDate,
		&task.StartTime, &task.EndTime,
		&task.UnitsCompleted, &task.ActualMinutes,
		&serials, &task.Notes, &issues,
		&task.Attempt,
		&task.AssignedAt, &task.StartedAt, &task.SubmittedAt, &task.ReviewedAt,
		&reviewerID, &task.ReviewFeedback, &task.RejectReason,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if operationID.Valid {
		task.OperationID = &operationID.UUID
	}
	if technicianID.Valid {
		task.TechnicianID = technicianID.UUID
	}
	if reviewerID.Valid {
		task.ReviewerID = &reviewerID.UUID
	}
	task.SerialNumbers = serials
	task.Issues = issues
	return &task, nil
}
