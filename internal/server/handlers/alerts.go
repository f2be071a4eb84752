package handlers

import (
	"net/http"

	"workfloor/internal/server/middleware"
	"workfloor/internal/store"
)

// ListAlerts handles GET /alerts.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AlertFilter{
		UnresolvedOnly: q.Get("unresolved") == "true",
		Type:           store.AlertType(q.Get("type")),
	}

	alerts, err := h.core.ListAlerts(r.Context(), filter)
	if err != nil {
		h.coreError(w, err)
		return
	}

	resp := make([]interface{}, 0, len(alerts))
	for i := range alerts {
		resp = append(resp, alertResponse(&alerts[i]))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// MarkAlertRead handles POST /alerts/{id}/read.
func (h *Handlers) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid alert id", http.StatusBadRequest)
		return
	}

	if err := h.core.MarkAlertRead(ctx, id, actor); err != nil {
		h.coreError(w, err)
		return
	}
	h.respondJson(w, http.StatusNoContent, nil)
}

// ResolveAlert handles POST /alerts/{id}/resolve.
func (h *Handlers) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		h.httpError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.httpError(w, "Invalid alert id", http.StatusBadRequest)
		return
	}

	if err := h.core.ResolveAlert(ctx, id, actor); err != nil {
		h.coreError(w, err)
		return
	}
	h.respondJson(w, http.StatusNoContent, nil)
}
