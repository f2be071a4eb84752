package postgres

import (
	"context"
	"fmt"

	"workfloor/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const jobOrderColumns = `id, number, product_name, total_quantity, completed_quantity, priority, status,
	due_date, start_date, completion_date, assigned_technician_ids, estimated_hours, actual_hours,
	version, created_by, created_at, updated_at`

// CreateJobOrder inserts a new job order row.
func (s *Store) CreateJobOrder(ctx context.Context, tx store.DBTransaction, order *store.JobOrder) error {
	query := `
		INSERT INTO job_orders (` + jobOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		order.ID, order.Number, order.ProductName,
		order.TotalQuantity, order.CompletedQuantity,
		order.Priority, order.Status,
		order.DueDate, order.StartDate, order.CompletionDate,
		pq.Array(order.AssignedTechnicianIDs),
		order.EstimatedHours, order.ActualHours,
		order.Version, order.CreatedBy,
		order.CreatedAt, order.UpdatedAt,
	)
	return err
}

// GetJobOrderByID returns a job order. Reads through tx when given so
// transactional callers see their own writes.
func (s *Store) GetJobOrderByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.JobOrder, error) {
	query := `SELECT ` + jobOrderColumns + ` FROM job_orders WHERE id = $1`

	executor := s.getExecutor(tx)
	return scanJobOrder(executor.QueryRowContext(ctx, query, id))
}

// ListJobOrders returns job orders matching the filter, newest first.
func (s *Store) ListJobOrders(ctx context.Context, filter store.JobOrderFilter) ([]store.JobOrder, error) {
	query := `SELECT ` + jobOrderColumns + ` FROM job_orders`

	var args []interface{}
	where := ""
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		if where == "" {
			where = fmt.Sprintf(" WHERE priority = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND priority = $%d", len(args))
		}
	}
	query += where + " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
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

	var orders []store.JobOrder
	for rows.Next() {
		order, err := scanJobOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// ListActiveJobOrders returns orders that are neither completed nor
// cancelled, oldest due first.
func (s *Store) ListActiveJobOrders(ctx context.Context) ([]store.JobOrder, error) {
	query := `SELECT ` + jobOrderColumns + `
		FROM job_orders
		WHERE status NOT IN ($1, $2)
		ORDER BY due_date ASC`

	rows, err := s.db.QueryContext(ctx, query,
		store.JobOrderStatusCompleted, store.JobOrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []store.JobOrder
	for rows.Next() {
		order, err := scanJobOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// UpdateJobOrderProgress writes the reconciler-owned columns guarded by the
// row version. Zero rows affected means a concurrent writer won; the caller
// gets ErrVersionConflict and must retry from a fresh read.
func (s *Store) UpdateJobOrderProgress(ctx context.Context, tx store.DBTransaction, order *store.JobOrder) error {
	query := `
		UPDATE job_orders
		SET completed_quantity = $1, actual_hours = $2, status = $3,
			start_date = $4, completion_date = $5, updated_at = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
	`

	executor := s.getExecutor(tx)
	res, err := executor.ExecContext(ctx, query,
		order.CompletedQuantity, order.ActualHours, order.Status,
		order.StartDate, order.CompletionDate, order.UpdatedAt,
		order.ID, order.Version,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrVersionConflict
	}

	order.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJobOrder(row rowScanner) (*store.JobOrder, error) {
	var order store.JobOrder
	var technicians pq.StringArray

	err := row.Scan(
		&order.ID, &order.Number, &order.ProductName,
		&order.TotalQuantity, &order.CompletedQuantity,
		&order.Priority, &order.Status,
		&order.DueDate, &order.StartDate, &order.CompletionDate,
		&technicians,
		&order.EstimatedHours, &order.ActualHours,
		&order.Version, &order.CreatedBy,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.AssignedTechnicianIDs = technicians
	return &order, nil
}
