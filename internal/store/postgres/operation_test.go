package postgres

import (
	"context"
	"testing"
	"time"

	"workfloor/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestCreateOperation(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	op := &store.Operation{
		ID:                  uuid.New(),
		Name:                "CNC milling",
		Category:            "machining",
		Department:          "machining",
		StandardTimeMinutes: 25,
		IsActive:            true,
		CreatedAt:           time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO operations`).
		WithArgs(op.ID, op.Name, op.Category, op.Department,
			op.StandardTimeMinutes, op.IsActive, op.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.CreateOperation(context.Background(), nil, op); err != nil {
		t.Fatalf("CreateOperation failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListOperations_ActiveOnly(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "category", "department", "standard_time_minutes", "is_active", "created_at",
	}).AddRow(uuid.New(), "Deburring", "finishing", "finishing", 10, true, time.Now())

	mock.ExpectQuery(`FROM operations\s+WHERE is_active = TRUE ORDER BY department, name`).
		WillReturnRows(rows)

	ops, err := s.ListOperations(context.Background(), false)
	if err != nil {
		t.Fatalf("ListOperations failed: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1", len(ops))
	}
}

func TestDeactivateOperation(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	id := uuid.New()
	mock.ExpectExec(`UPDATE operations SET is_active = FALSE WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeactivateOperation(context.Background(), nil, id); err != nil {
		t.Fatalf("DeactivateOperation failed: %v", err)
	}
}
