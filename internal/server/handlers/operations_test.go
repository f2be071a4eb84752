package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workfloor/internal/auth"
	"workfloor/internal/core"
	"workfloor/internal/store"

	"github.com/google/uuid"
)

func TestCreateOperation(t *testing.T) {
	mock := &mockCore{
		createOperationResp: &store.Operation{
			ID:                  uuid.New(),
			Name:                "CNC milling",
			Department:          "machining",
			StandardTimeMinutes: 25,
			IsActive:            true,
			CreatedAt:           time.Now().UTC(),
		},
	}
	h := New(mock, &mockPinger{})

	body := []byte(`{"name": "CNC milling", "department": "machining", "standard_time_minutes": 25}`)
	req := httptest.NewRequest(http.MethodPost, "/operations", bytes.NewReader(body))
	req = withActor(req, auth.RolePlanner)

	rr := httptest.NewRecorder()
	h.CreateOperation(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestListOperations_IncludeInactive(t *testing.T) {
	mock := &mockCore{}
	h := New(mock, &mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/operations?include_inactive=true", nil)
	rr := httptest.NewRecorder()
	h.ListOperations(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusOK)
	}
	if !mock.capturedInactive {
		t.Error("expected include_inactive forwarded to the core")
	}
}

func TestDeactivateOperation_PlannerOnly(t *testing.T) {
	opID := uuid.New()
	mock := &mockCore{
		deactivateErr: &core.PermissionError{Action: "deactivate operations", Role: auth.RoleTechnician},
	}
	h := New(mock, &mockPinger{})

	req := httptest.NewRequest(http.MethodDelete, "/operations/"+opID.String(), nil)
	req.SetPathValue("id", opID.String())
	req = withActor(req, auth.RoleTechnician)

	rr := httptest.NewRecorder()
	h.DeactivateOperation(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusForbidden)
	}
}
