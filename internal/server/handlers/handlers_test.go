package handlers

import (
	"context"
	"time"

	"workfloor/internal/core"
	"workfloor/internal/store"

	"github.com/google/uuid"
)

// Mock core service
type mockCore struct {
	// Job order hooks
	createJobOrderResp  *store.JobOrder
	createJobOrderErr   error
	getJobOrderResp     *store.JobOrder
	getJobOrderErr      error
	listJobOrdersResp   []store.JobOrder
	listJobOrdersErr    error
	correctJobOrderResp *store.JobOrder
	correctJobOrderErr  error
	listOrderTasksResp  []store.Task
	listOrderTasksErr   error

	// Task hooks
	taskResp *store.Task
	taskErr  error

	// Alert hooks
	listAlertsResp  []store.Alert
	listAlertsErr   error
	markReadErr     error
	resolveAlertErr error

	// Operation hooks
	createOperationResp *store.Operation
	createOperationErr  error
	listOperationsResp  []store.Operation
	listOperationsErr   error
	deactivateErr       error

	// Spies (to verify arguments passed by handlers)
	capturedJobOrderInput core.JobOrderInput
	capturedCorrection    core.Correction
	capturedTaskInput     core.TaskInput
	capturedDirectInput   core.DirectTaskInput
	capturedDirectUpdate  core.DirectTaskUpdate
	capturedSubmission    core.Submission
	capturedTechnicianID  uuid.UUID
	capturedFeedback      string
	capturedReason        string
	capturedAlertFilter   store.AlertFilter
	capturedActor         core.Actor
	capturedInactive      bool
	reviewedCalled        bool
	directCalled          bool
}

func (m *mockCore) CreateJobOrder(ctx context.Context, in core.JobOrderInput, actor core.Actor) (*store.JobOrder, error) {
	m.capturedJobOrderInput = in
	m.capturedActor = actor
	return m.createJobOrderResp, m.createJobOrderErr
}

func (m *mockCore) GetJobOrder(ctx context.Context, id uuid.UUID) (*store.JobOrder, error) {
	return m.getJobOrderResp, m.getJobOrderErr
}

func (m *mockCore) ListJobOrders(ctx context.Context, filter store.JobOrderFilter) ([]store.JobOrder, error) {
	return m.listJobOrdersResp, m.listJobOrdersErr
}

func (m *mockCore) CorrectJobOrder(ctx context.Context, id uuid.UUID, corr core.Correction, actor core.Actor) (*store.JobOrder, error) {
	m.capturedCorrection = corr
	m.capturedActor = actor
	return m.correctJobOrderResp, m.correctJobOrderErr
}

func (m *mockCore) ListJobOrderTasks(ctx context.Context, jobOrderID uuid.UUID) ([]store.Task, error) {
	return m.listOrderTasksResp, m.listOrderTasksErr
}

func (m *mockCore) CreateReviewedTask(ctx context.Context, in core.TaskInput, actor core.Actor) (*store.Task, error) {
	m.reviewedCalled = true
	m.capturedTaskInput = in
	return m.taskResp, m.taskErr
}

func (m *mockCore) CreateDirectTask(ctx context.Context, in core.DirectTaskInput, actor core.Actor) (*store.Task, error) {
	m.directCalled = true
	m.capturedDirectInput = in
	return m.taskResp, m.taskErr
}

func (m *mockCore) UpdateDirectTask(ctx context.Context, taskID uuid.UUID, upd core.DirectTaskUpdate, actor core.Actor) (*store.Task, error) {
	m.capturedDirectUpdate = upd
	return m.taskResp, m.taskErr
}

func (m *mockCore) GetTask(ctx context.Context, id uuid.UUID) (*store.Task, error) {
	return m.taskResp, m.taskErr
}

func (m *mockCore) AssignTask(ctx context.Context, taskID, technicianID uuid.UUID, actor core.Actor) (*store.Task, error) {
	m.capturedTechnicianID = technicianID
	return m.taskResp, m.taskErr
}

func (m *mockCore) StartTask(ctx context.Context, taskID uuid.UUID, actor core.Actor) (*store.Task, error) {
	return m.taskResp, m.taskErr
}

func (m *mockCore) SubmitTask(ctx context.Context, taskID uuid.UUID, sub core.Submission, actor core.Actor) (*store.Task, error) {
	m.capturedSubmission = sub
	return m.taskResp, m.taskErr
}

func (m *mockCore) ApproveTask(ctx context.Context, taskID uuid.UUID, actor core.Actor, feedback string) (*store.Task, error) {
	m.capturedFeedback = feedback
	return m.taskResp, m.taskErr
}

func (m *mockCore) RejectTask(ctx context.Context, taskID uuid.UUID, actor core.Actor, reason string) (*store.Task, error) {
	m.capturedReason = reason
	return m.taskResp, m.taskErr
}

func (m *mockCore) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]store.Alert, error) {
	m.capturedAlertFilter = filter
	return m.listAlertsResp, m.listAlertsErr
}

func (m *mockCore) MarkAlertRead(ctx context.Context, alertID uuid.UUID, actor core.Actor) error {
	return m.markReadErr
}

func (m *mockCore) ResolveAlert(ctx context.Context, alertID uuid.UUID, actor core.Actor) error {
	m.capturedActor = actor
	return m.resolveAlertErr
}

func (m *mockCore) CreateOperation(ctx context.Context, op store.Operation, actor core.Actor) (*store.Operation, error) {
	return m.createOperationResp, m.createOperationErr
}

func (m *mockCore) ListOperations(ctx context.Context, includeInactive bool) ([]store.Operation, error) {
	m.capturedInactive = includeInactive
	return m.listOperationsResp, m.listOperationsErr
}

func (m *mockCore) DeactivateOperation(ctx context.Context, id uuid.UUID, actor core.Actor) error {
	return m.deactivateErr
}

// Mock pinger for health checks
type mockPinger struct {
	pingErr error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.pingErr
}

func testJobOrder() *store.JobOrder {
	now := time.Now().UTC()
	return &store.JobOrder{
		ID:                uuid.New(),
		Number:            "JO-2026-0042",
		ProductName:       "Valve housing",
		TotalQuantity:     50,
		CompletedQuantity: 35,
		Priority:          store.PriorityMedium,
		Status:            store.JobOrderStatusInProgress,
		DueDate:           now.Add(72 * time.Hour),
		Version:           1,
		CreatedBy:         uuid.New(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func testTask(status store.TaskStatus) *store.Task {
	now := time.Now().UTC()
	return &store.Task{
		ID:         uuid.New(),
		JobOrderID: uuid.New(),
		Mode:       store.TaskModeReviewed,
		Status:     status,
		TaskDate:   now,
		Attempt:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
