package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"workfloor/internal/core"
	"workfloor/internal/server/middleware"
	"workfloor/internal/store"
	"workfloor/pkg/api"

	"github.com/google/uuid"
)

// CreateJobOrder handles POST /job-orders.
func (h *Handlers) CreateJobOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateJobOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.core.CreateJobOrder(ctx, core.JobOrderInput{
		Number:                req.Number,
		ProductName:           req.ProductName,
		TotalQuantity:         req.TotalQuantity,
		Priority:              store.Priority(req.Priority),
		DueDate:               req.DueDate,
		AssignedTechnicianIDs: req.AssignedTechnicianIDs,
		EstimatedHours:        req.EstimatedHours,
	}, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusCreated, jobOrderResponse(order, time.Now().UTC()))
}

// GetJobOrder handles GET /job-orders/{id}.
func (h *Handlers) GetJobOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid job order id", http.StatusBadRequest)
		return
	}

	order, err := h.core.GetJobOrder(r.Context(), id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, jobOrderResponse(order, time.Now().UTC()))
}

// ListJobOrders handles GET /job-orders.
func (h *Handlers) ListJobOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.JobOrderFilter{
		Status:   store.JobOrderStatus(q.Get("status")),
		Priority: store.Priority(q.Get("priority")),
	}

	orders, err := h.core.ListJobOrders(r.Context(), filter)
	if err != nil {
		h.coreError(w, err)
		return
	}

	now := time.Now().UTC()
	resp := make([]interface{}, 0, len(orders))
	for i := range orders {
		resp = append(resp, jobOrderResponse(&orders[i], now))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// CorrectJobOrder handles POST /job-orders/{id}/correct. Administrative
// override of ledger fields; the only write path around the reconciler,
// and it is audited.
func (h *Handlers) CorrectJobOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid job order id", http.StatusBadRequest)
		return
	}

	var req api.CorrectJobOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	corr := core.Correction{
		CompletedQuantity: req.CompletedQuantity,
		Reason:            req.Reason,
	}
	if req.Status != nil {
		st := store.JobOrderStatus(*req.Status)
		corr.Status = &st
	}

	order, err := h.core.CorrectJobOrder(ctx, id, corr, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, jobOrderResponse(order, time.Now().UTC()))
}

// ListJobOrderTasks handles GET /job-orders/{id}/tasks.
func (h *Handlers) ListJobOrderTasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid job order id", http.StatusBadRequest)
		return
	}

	tasks, err := h.core.ListJobOrderTasks(r.Context(), id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	resp := make([]interface{}, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, taskResponse(&tasks[i]))
	}
	h.respondJson(w, http.StatusOK, resp)
}

func optionalUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
