package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workfloor/internal/auth"
	"workfloor/internal/core"
	"workfloor/internal/server/middleware"

	"github.com/google/uuid"
)

func withActor(req *http.Request, role auth.Role) *http.Request {
	actor := core.Actor{ID: uuid.New(), Role: role}
	return req.WithContext(middleware.NewContextWithActor(req.Context(), actor))
}

func TestCreateJobOrder(t *testing.T) {
	validBody := []byte(`{
		"job_order_number": "JO-2026-0042",
		"product_name": "Valve housing",
		"total_quantity": 50,
		"due_date": "2026-10-01T00:00:00Z"
	}`)

	tests := []struct {
		name           string
		body           []byte
		mockSetup      func(*mockCore)
		expectedStatus int
		expectedInBody string
	}{
		{
			name: "Success",
			body: validBody,
			mockSetup: func(m *mockCore) {
				m.createJobOrderResp = testJobOrder()
			},
			expectedStatus: http.StatusCreated,
			expectedInBody: "JO-2026-0042",
		},
		{
			name:           "Invalid JSON",
			body:           []byte(`{invalid-json}`),
			mockSetup:      func(m *mockCore) {},
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Invalid request body",
		},
		{
			name: "Validation Error",
			body: validBody,
			mockSetup: func(m *mockCore) {
				m.createJobOrderErr = &core.ValidationError{Field: "total_quantity", Reason: "must be positive"}
			},
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "total_quantity",
		},
		{
			name: "Permission Denied",
			body: validBody,
			mockSetup: func(m *mockCore) {
				m.createJobOrderErr = &core.PermissionError{Action: "create job orders", Role: auth.RoleTechnician}
			},
			expectedStatus: http.StatusForbidden,
			expectedInBody: "may not",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCore{}
			tt.mockSetup(mock)
			h := New(mock, &mockPinger{})

			req := httptest.NewRequest(http.MethodPost, "/job-orders", bytes.NewReader(tt.body))
			req = withActor(req, auth.RolePlanner)

			rr := httptest.NewRecorder()
			h.CreateJobOrder(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					rr.Code, tt.expectedStatus)
			}
			if tt.expectedInBody != "" && !strings.Contains(rr.Body.String(), tt.expectedInBody) {
				t.Errorf("handler returned unexpected body: got %v want substring %v",
					rr.Body.String(), tt.expectedInBody)
			}
		})
	}
}

func TestCreateJobOrder_NoActor(t *testing.T) {
	h := New(&mockCore{}, &mockPinger{})

	req := httptest.NewRequest(http.MethodPost, "/job-orders", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	h.CreateJobOrder(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestGetJobOrder(t *testing.T) {
	order := testJobOrder()

	tests := []struct {
		name           string
		id             string
		mockSetup      func(*mockCore)
		expectedStatus int
	}{
		{
			name: "Success",
			id:   order.ID.String(),
			mockSetup: func(m *mockCore) {
				m.getJobOrderResp = order
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			id:             "not-a-uuid",
			mockSetup:      func(m *mockCore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Not Found",
			id:   uuid.NewString(),
			mockSetup: func(m *mockCore) {
				m.getJobOrderErr = &core.NotFoundError{Kind: "job order", ID: uuid.New()}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCore{}
			tt.mockSetup(mock)
			h := New(mock, &mockPinger{})

			req := httptest.NewRequest(http.MethodGet, "/job-orders/"+tt.id, nil)
			req.SetPathValue("id", tt.id)

			rr := httptest.NewRecorder()
			h.GetJobOrder(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestCorrectJobOrder_OverCompletion(t *testing.T) {
	order := testJobOrder()
	mock := &mockCore{
		correctJobOrderErr: &core.OverCompletionError{JobOrderID: order.ID, Attempted: 60, Max: 50},
	}
	h := New(mock, &mockPinger{})

	body := []byte(`{"completed_quantity": 60, "reason": "recount"}`)
	req := httptest.NewRequest(http.MethodPost, "/job-orders/"+order.ID.String()+"/correct", bytes.NewReader(body))
	req.SetPathValue("id", order.ID.String())
	req = withActor(req, auth.RoleAdmin)

	rr := httptest.NewRecorder()
	h.CorrectJobOrder(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	if mock.capturedCorrection.CompletedQuantity == nil || *mock.capturedCorrection.CompletedQuantity != 60 {
		t.Error("expected the corrected quantity forwarded to the core")
	}
	if mock.capturedCorrection.Reason != "recount" {
		t.Errorf("got reason %q, want %q", mock.capturedCorrection.Reason, "recount")
	}
}

func TestListJobOrders(t *testing.T) {
	mock := &mockCore{listJobOrdersResp: nil}
	h := New(mock, &mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/job-orders?status=in_progress", nil)
	rr := httptest.NewRecorder()
	h.ListJobOrders(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusOK)
	}
	// Empty result is an empty JSON array, never null.
	if !strings.Contains(rr.Body.String(), "[]") {
		t.Errorf("expected empty array body, got %v", rr.Body.String())
	}
}
