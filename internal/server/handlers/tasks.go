package handlers

import (
	"encoding/json"
	"net/http"

	"workfloor/internal/core"
	"workfloor/internal/server/middleware"
	"workfloor/internal/store"
	"workfloor/pkg/api"

	"github.com/google/uuid"
)

// CreateTask handles POST /tasks. The mode field selects the lifecycle.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	jobOrderID, err := uuid.Parse(req.JobOrderID)
	if err != nil {
		h.httpError(w, "Invalid job order id", http.StatusBadRequest)
		return
	}

	var operationID *uuid.UUID
	if req.OperationID != "" {
		id, err := uuid.Parse(req.OperationID)
		if err != nil {
			h.httpError(w, "Invalid operation id", http.StatusBadRequest)
			return
		}
		operationID = &id
	}

	var taskDate, startTime, endTime = req.TaskDate, req.StartTime, req.EndTime

	var task *store.Task
	switch store.TaskMode(req.Mode) {
	case store.TaskModeReviewed:
		in := core.TaskInput{
			JobOrderID:  jobOrderID,
			OperationID: operationID,
			Notes:       req.Notes,
		}
		if taskDate != nil {
			in.TaskDate = *taskDate
		}
		task, err = h.core.CreateReviewedTask(ctx, in, actor)

	case store.TaskModeDirect:
		in := core.DirectTaskInput{
			JobOrderID:     jobOrderID,
			OperationID:    operationID,
			StartTime:      startTime,
			EndTime:        endTime,
			UnitsCompleted: req.UnitsCompleted,
			Notes:          req.Notes,
			Issues:         req.Issues,
			Complete:       req.Complete,
		}
		if taskDate != nil {
			in.TaskDate = *taskDate
		}
		task, err = h.core.CreateDirectTask(ctx, in, actor)

	default:
		h.httpError(w, "Unknown task mode", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusCreated, taskResponse(task))
}

// GetTask handles GET /tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.core.GetTask(r.Context(), id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// UpdateTask handles PUT /tasks/{id} for direct-mode tasks.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.core.UpdateDirectTask(ctx, id, core.DirectTaskUpdate{
		Status:         store.TaskStatus(req.Status),
		EndTime:        req.EndTime,
		UnitsCompleted: req.UnitsCompleted,
		Notes:          req.Notes,
		Issues:         req.Issues,
	}, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// AssignTask handles POST /tasks/{id}/assign.
func (h *Handlers) AssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req api.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	technicianID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		h.httpError(w, "Invalid technician id", http.StatusBadRequest)
		return
	}

	task, err := h.core.AssignTask(ctx, id, technicianID, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// StartTask handles POST /tasks/{id}/start.
func (h *Handlers) StartTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.core.StartTask(ctx, id, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// SubmitTask handles POST /tasks/{id}/submit.
func (h *Handlers) SubmitTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req api.SubmitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.core.SubmitTask(ctx, id, core.Submission{
		CompletedUnits: req.CompletedUnits,
		ActualMinutes:  req.ActualMinutes,
		SerialNumbers:  req.SerialNumbers,
		Notes:          req.Notes,
	}, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// ApproveTask handles POST /tasks/{id}/approve.
func (h *Handlers) ApproveTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req api.ReviewTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.core.ApproveTask(ctx, id, actor, req.Feedback)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}

// RejectTask handles POST /tasks/{id}/reject.
func (h *Handlers) RejectTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var req api.ReviewTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.core.RejectTask(ctx, id, actor, req.Reason)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, taskResponse(task))
}
