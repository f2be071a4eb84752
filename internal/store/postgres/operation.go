package postgres

import (
	"context"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// CreateOperation inserts a catalog entry.
func (s *Store) CreateOperation(ctx context.Context, tx store.DBTransaction, op *store.Operation) error {
	query := `
		INSERT INTO operations (id, name, category, department, standard_time_minutes, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query,
		op.ID, op.Name, op.Category, op.Department,
		op.StandardTimeMinutes, op.IsActive, op.CreatedAt,
	)
	return err
}

// GetOperationByID returns a catalog entry.
func (s *Store) GetOperationByID(ctx context.Context, id uuid.UUID) (*store.Operation, error) {
	query := `
		SELECT id, name, category, department, standard_time_minutes, is_active, created_at
		FROM operations WHERE id = $1
	`

	var op store.Operation
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&op.ID, &op.Name, &op.Category, &op.Department,
		&op.StandardTimeMinutes, &op.IsActive, &op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// ListOperations returns catalog entries ordered by department and name.
func (s *Store) ListOperations(ctx context.Context, includeInactive bool) ([]store.Operation, error) {
	query := `
		SELECT id, name, category, department, standard_time_minutes, is_active, created_at
		FROM operations
	`
	if !includeInactive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY department, name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []store.Operation
	for rows.Next() {
		var op store.Operation
		if err := rows.Scan(
			&op.ID, &op.Name, &op.Category, &op.Department,
			&op.StandardTimeMinutes, &op.IsActive, &op.CreatedAt,
		); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// DeactivateOperation soft-deletes a catalog entry.
func (s *Store) DeactivateOperation(ctx context.Context, tx store.DBTransaction, id uuid.UUID) error {
	executor := s.getExecutor(tx)
	_, err := executor.ExecContext(ctx, "UPDATE operations SET is_active = FALSE WHERE id = $1", id)
	return err
}
