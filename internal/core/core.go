// Package core implements the job-order / task lifecycle and
// progress-reconciliation rules: how task work mutates job-order completion
// counters, how status transitions are derived, and how delay and
// performance alerts are raised.
//
// The HTTP layer calls into this package and translates the typed errors;
// it never touches the ledger columns itself.
package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"workfloor/internal/auth"
	"workfloor/internal/store"

	"github.com/google/uuid"
)

// Store combines the repository interfaces the core needs.
type Store interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	store.OperationStore
	store.JobOrderStore
	store.TaskStore
	store.AlertStore
}

// Actor is the authenticated identity performing a call. Roles travel with
// every call instead of living in ambient request state.
type Actor struct {
	ID   uuid.UUID
	Role auth.Role
}

// Service exposes the task lifecycle, job-order ledger and alert operations.
type Service struct {
	store      Store
	reconciler *Reconciler
	emitter    *Emitter
	log        *slog.Logger
	now        func() time.Time
}

// NewService creates a core service over the given store.
func NewService(s Store, emitter *Emitter, log *slog.Logger) *Service {
	return &Service{
		store:      s,
		reconciler: NewReconciler(s),
		emitter:    emitter,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// maxConflictRetries bounds optimistic-concurrency retries before the
// conflict is surfaced to the caller.
const maxConflictRetries = 3

// inTx runs fn inside a transaction and commits when fn succeeds. A
// ConflictError from fn rolls back and reruns fn in a fresh transaction, up
// to the retry budget; fn must re-read all state it depends on.
func (s *Service) inTx(ctx context.Context, fn func(tx store.Tx) error) error {
	for attempt := 0; ; attempt++ {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return err
		}

		err = fn(tx)
		if err == nil {
			if err := tx.Commit(); err != nil {
				tx.Rollback()
				return err
			}
			return nil
		}

		tx.Rollback()

		var conflict *ConflictError
		if errors.As(err, &conflict) && attempt < maxConflictRetries {
			continue
		}
		return err
	}
}

// loadTask fetches a task inside tx, mapping absence to NotFoundError.
func (s *Service) loadTask(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Task, error) {
	task, err := s.store.GetTaskByID(ctx, tx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "task", ID: id}
		}
		return nil, err
	}
	return task, nil
}
