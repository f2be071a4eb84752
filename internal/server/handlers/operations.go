package handlers

import (
	"encoding/json"
	"net/http"

	"workfloor/internal/server/middleware"
	"workfloor/internal/store"
	"workfloor/pkg/api"
)

// CreateOperation handles POST /operations.
func (h *Handlers) CreateOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	op, err := h.core.CreateOperation(ctx, store.Operation{
		Name:                req.Name,
		Category:            req.Category,
		Department:          req.Department,
		StandardTimeMinutes: req.StandardTimeMinutes,
	}, actor)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.respondJson(w, http.StatusCreated, operationResponse(op))
}

// ListOperations handles GET /operations.
func (h *Handlers) ListOperations(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	ops, err := h.core.ListOperations(r.Context(), includeInactive)
	if err != nil {
		h.coreError(w, err)
		return
	}

	resp := make([]interface{}, 0, len(ops))
	for i := range ops {
		resp = append(resp, operationResponse(&ops[i]))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// DeactivateOperation handles DELETE /operations/{id}. Soft delete only.
func (h *Handlers) DeactivateOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid operation id", http.StatusBadRequest)
		return
	}

	if err := h.core.DeactivateOperation(ctx, id, actor); err != nil {
		h.coreError(w, err)
		return
	}
	h.respondJson(w, http.StatusNoContent, nil)
}
