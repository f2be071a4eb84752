package core

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"workfloor/internal/store"

	"github.com/google/uuid"
)

// mockTx satisfies store.Tx and records commit/rollback calls.
type mockTx struct {
	committed  bool
	rolledBack bool
}

func (t *mockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *mockTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *mockTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *mockTx) Commit() error {
	t.committed = true
	return nil
}

func (t *mockTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// memStore is an in-memory Store for core tests. Hooks allow individual
// methods to be overridden per test; everything else behaves like a real
// store, including the version guard on progress writes.
type memStore struct {
	mu sync.Mutex

	orders     map[uuid.UUID]*store.JobOrder
	tasks      map[uuid.UUID]*store.Task
	alerts     []*store.Alert
	operations map[uuid.UUID]*store.Operation

	// technician ID -> rolling efficiency; absent means no measurable work
	efficiency map[uuid.UUID]float64

	txs            []*mockTx
	progressWrites int

	updateProgressHook func(order *store.JobOrder) error
	createTaskHook     func(task *store.Task) error
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[uuid.UUID]*store.JobOrder),
		tasks:      make(map[uuid.UUID]*store.Task),
		operations: make(map[uuid.UUID]*store.Operation),
		efficiency: make(map[uuid.UUID]float64),
	}
}

func (m *memStore) BeginTx(ctx context.Context) (store.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &mockTx{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *memStore) lastTx() *mockTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) == 0 {
		return nil
	}
	return m.txs[len(m.txs)-1]
}

func (m *memStore) putOrder(order *store.JobOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
}

func (m *memStore) order(id uuid.UUID) *store.JobOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.orders[id]
	return &cp
}

func (m *memStore) task(id uuid.UUID) *store.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.tasks[id]
	return &cp
}

func (m *memStore) alertCount(alertType store.AlertType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.alerts {
		if a.Type == alertType {
			n++
		}
	}
	return n
}

// OperationStore

func (m *memStore) CreateOperation(ctx context.Context, tx store.DBTransaction, op *store.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *op
	m.operations[op.ID] = &cp
	return nil
}

func (m *memStore) GetOperationByID(ctx context.Context, id uuid.UUID) (*store.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *op
	return &cp, nil
}

func (m *memStore) ListOperations(ctx context.Context, includeInactive bool) ([]store.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Operation
	for _, op := range m.operations {
		if op.IsActive || includeInactive {
			out = append(out, *op)
		}
	}
	return out, nil
}

func (m *memStore) DeactivateOperation(ctx context.Context, tx store.DBTransaction, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operations[id]
	if !ok {
		return sql.ErrNoRows
	}
	op.IsActive = false
	return nil
}

// JobOrderStore

func (m *memStore) CreateJobOrder(ctx context.Context, tx store.DBTransaction, order *store.JobOrder) error {
	m.putOrder(order)
	return nil
}

func (m *memStore) GetJobOrderByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.JobOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *order
	return &cp, nil
}

func (m *memStore) ListJobOrders(ctx context.Context, filter store.JobOrderFilter) ([]store.JobOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.JobOrder
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memStore) ListActiveJobOrders(ctx context.Context) ([]store.JobOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.JobOrder
	for _, o := range m.orders {
		if o.Status != store.JobOrderStatusCompleted && o.Status != store.JobOrderStatusCancelled {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) UpdateJobOrderProgress(ctx context.Context, tx store.DBTransaction, order *store.JobOrder) error {
	m.mu.Lock()
	hook := m.updateProgressHook
	m.mu.Unlock()
	if hook != nil {
		if err := hook(order); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressWrites++
	current, ok := m.orders[order.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if current.Version != order.Version {
		return store.ErrVersionConflict
	}
	order.Version++
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

// TaskStore

func (m *memStore) CreateTask(ctx context.Context, tx store.DBTransaction, task *store.Task) error {
	m.mu.Lock()
	hook := m.createTaskHook
	m.mu.Unlock()
	if hook != nil {
		if err := hook(task); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memStore) GetTaskByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *task
	return &cp, nil
}

func (m *memStore) UpdateTask(ctx context.Context, tx store.DBTransaction, task *store.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memStore) ListTasksByJobOrder(ctx context.Context, jobOrderID uuid.UUID) ([]store.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Task
	for _, t := range m.tasks {
		if t.JobOrderID == jobOrderID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) TechnicianEfficiency(ctx context.Context, technicianID uuid.UUID, since time.Time) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	eff, ok := m.efficiency[technicianID]
	return eff, ok, nil
}

func (m *memStore) ListRecentTechnicianIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for id := range m.efficiency {
		out = append(out, id)
	}
	return out, nil
}

// AlertStore

func (m *memStore) CreateAlert(ctx context.Context, tx store.DBTransaction, alert *store.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *alert
	m.alerts = append(m.alerts, &cp)
	return nil
}

func (m *memStore) HasUnresolvedAlert(ctx context.Context, tx store.DBTransaction, alertType store.AlertType, relatedID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.Type != alertType || a.IsResolved {
			continue
		}
		if (a.JobOrderID != nil && *a.JobOrderID == relatedID) ||
			(a.TechnicianID != nil && *a.TechnicianID == relatedID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]store.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Alert
	for _, a := range m.alerts {
		if filter.UnresolvedOnly && a.IsResolved {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) MarkAlertRead(ctx context.Context, tx store.DBTransaction, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id {
			a.IsRead = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) MarkAlertResolved(ctx context.Context, tx store.DBTransaction, id uuid.UUID, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id {
			a.IsResolved = true
			a.IsRead = true
			a.ResolvedBy = &resolvedBy
			a.ResolvedAt = &resolvedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) CountUnresolvedAlerts(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.alerts {
		if !a.IsResolved {
			n++
		}
	}
	return n, nil
}
