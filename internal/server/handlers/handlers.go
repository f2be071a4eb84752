// Package handlers contains HTTP handlers for the workfloor API.
//
// Handlers only decode requests, call into the core, and translate typed
// core errors into status codes. They never touch ledger fields.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"workfloor/internal/core"
	"workfloor/internal/store"
	"workfloor/pkg/api"

	"github.com/google/uuid"
)

// Core combines the service methods the handlers need.
type Core interface {
	CreateJobOrder(ctx context.Context, in core.JobOrderInput, actor core.Actor) (*store.JobOrder, error)
	GetJobOrder(ctx context.Context, id uuid.UUID) (*store.JobOrder, error)
	ListJobOrders(ctx context.Context, filter store.JobOrderFilter) ([]store.JobOrder, error)
	CorrectJobOrder(ctx context.Context, id uuid.UUID, corr core.Correction, actor core.Actor) (*store.JobOrder, error)
	ListJobOrderTasks(ctx context.Context, jobOrderID uuid.UUID) ([]store.Task, error)

	CreateReviewedTask(ctx context.Context, in core.TaskInput, actor core.Actor) (*store.Task, error)
	CreateDirectTask(ctx context.Context, in core.DirectTaskInput, actor core.Actor) (*store.Task, error)
	UpdateDirectTask(ctx context.Context, taskID uuid.UUID, upd core.DirectTaskUpdate, actor core.Actor) (*store.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*store.Task, error)
	AssignTask(ctx context.Context, taskID, technicianID uuid.UUID, actor core.Actor) (*store.Task, error)
	StartTask(ctx context.Context, taskID uuid.UUID, actor core.Actor) (*store.Task, error)
	SubmitTask(ctx context.Context, taskID uuid.UUID, sub core.Submission, actor core.Actor) (*store.Task, error)
	ApproveTask(ctx context.Context, taskID uuid.UUID, actor core.Actor, feedback string) (*store.Task, error)
	RejectTask(ctx context.Context, taskID uuid.UUID, actor core.Actor, reason string) (*store.Task, error)

	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]store.Alert, error)
	MarkAlertRead(ctx context.Context, alertID uuid.UUID, actor core.Actor) error
	ResolveAlert(ctx context.Context, alertID uuid.UUID, actor core.Actor) error

	CreateOperation(ctx context.Context, op store.Operation, actor core.Actor) (*store.Operation, error)
	ListOperations(ctx context.Context, includeInactive bool) ([]store.Operation, error)
	DeactivateOperation(ctx context.Context, id uuid.UUID, actor core.Actor) error
}

// Pinger checks backing-store connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	core Core
	db   Pinger
}

// New creates a new Handlers instance.
func New(c Core, db Pinger) *Handlers {
	return &Handlers{core: c, db: db}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// coreError translates the core error taxonomy into an HTTP response.
func (h *Handlers) coreError(w http.ResponseWriter, err error) {
	var (
		validation *core.ValidationError
		state      *core.InvalidStateError
		notFound   *core.NotFoundError
		overComp   *core.OverCompletionError
		conflict   *core.ConflictError
		permission *core.PermissionError
	)

	switch {
	case errors.As(err, &validation):
		h.httpError(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		h.httpError(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &state):
		h.httpError(w, state.Error(), http.StatusConflict)
	case errors.As(err, &overComp):
		h.httpError(w, overComp.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &conflict):
		h.httpError(w, conflict.Error(), http.StatusConflict)
	case errors.As(err, &permission):
		h.httpError(w, permission.Error(), http.StatusForbidden)
	default:
		h.httpError(w, "Internal error", http.StatusInternalServerError)
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
