package postgres

import (
	"context"
	"fmt"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const alertColumns = `id, type, severity, title, message, job_order_id, technician_id, task_id,
	target_roles, is_read, is_resolved, resolved_at, resolved_by, created_at`

// CreateAlert inserts a new alert row.
func (s *Store) CreateAlert(ctx context.Context, tx store.DBTransaction, alert *store.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		alert.ID, alert.Type, alert.Severity, alert.Title, alert.Message,
		alert.JobOrderID, alert.TechnicianID, alert.TaskID,
		pq.Array(alert.TargetRoles),
		alert.IsRead, alert.IsResolved, alert.ResolvedAt, alert.ResolvedBy,
		alert.CreatedAt,
	)
	return err
}

// HasUnresolvedAlert reports whether an unresolved alert of the given type
// already exists for the related job order or technician.
func (s *Store) HasUnresolvedAlert(ctx context.Context, tx store.DBTransaction, alertType store.AlertType, relatedID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE type = $1 AND is_resolved = FALSE
				AND (job_order_id = $2 OR technician_id = $2)
		)
	`

	executor := s.getExecutor(tx)
	var exists bool
	err := executor.QueryRowContext(ctx, query, alertType, relatedID).Scan(&exists)
	return exists, err
}

// ListAlerts returns alerts matching the filter, newest first.
func (s *Store) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]store.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`

	var args []interface{}
	var conds []string
	if filter.UnresolvedOnly {
		conds = append(conds, "is_resolved = FALSE")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.JobOrderID != nil {
		args = append(args, *filter.JobOrderID)
		conds = append(conds, fmt.Sprintf("job_order_id = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []store.Alert
	for rows.Next() {
		var alert store.Alert
		var jobOrderID, technicianID, taskID, resolvedBy uuid.NullUUID
		var roles pq.StringArray

		err := rows.Scan(
			&alert.ID, &alert.Type, &alert.Severity, &alert.Title, &alert.Message,
			&jobOrderID, &technicianID, &taskID,
			&roles,
			&alert.IsRead, &alert.IsResolved, &alert.ResolvedAt, &resolvedBy,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if jobOrderID.Valid {
			alert.JobOrderID = &jobOrderID.UUID
		}
		if technicianID.Valid {
			alert.TechnicianID = &technicianID.UUID
		}
		if taskID.Valid {
			alert.TaskID = &taskID.UUID
		}
		if resolvedBy.Valid {
			alert.ResolvedBy = &resolvedBy.UUID
		}
		alert.TargetRoles = roles
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// MarkAlertRead flags an alert as read.
func (s *Store) MarkAlertRead(ctx context.Context, tx store.DBTransaction, id uuid.UUID) error {
	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, "UPDATE alerts SET is_read = TRUE WHERE id = $1", id)
	return err
}

// MarkAlertResolved flags an alert as resolved and records the resolver.
func (s *Store) MarkAlertResolved(ctx context.Context, tx store.DBTransaction, id uuid.UUID, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, `
		UPDATE alerts
		SET is_resolved = TRUE, is_read = TRUE, resolved_by = $1, resolved_at = $2
		WHERE id = $3
	`, resolvedBy, resolvedAt, id)
	return err
}

// CountUnresolvedAlerts returns the number of unresolved alerts.
func (s *Store) CountUnresolvedAlerts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alerts WHERE is_resolved = FALSE").Scan(&count)
	return count, err
}
