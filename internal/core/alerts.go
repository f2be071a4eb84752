package core

import (
	"context"
	"fmt"
	"time"

	"workfloor/internal/auth"
	"workfloor/internal/store"

	"github.com/google/uuid"
)

// EmitterConfig carries the alert thresholds. The source UI hard-coded a
// 3-day deadline window and an 85% efficiency floor; here both are
// configuration.
type EmitterConfig struct {
	DeadlineWindow      time.Duration
	EfficiencyThreshold float64
	EfficiencyLookback  time.Duration
}

// DefaultEmitterConfig returns the thresholds used when none are configured.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		DeadlineWindow:      3 * 24 * time.Hour,
		EfficiencyThreshold: 0.85,
		EfficiencyLookback:  7 * 24 * time.Hour,
	}
}

// Emitter derives alert conditions from job-order and technician state and
// persists deduplicated alert records. It never writes job orders or tasks.
type Emitter struct {
	alerts store.AlertStore
	cfg    EmitterConfig
}

// NewEmitter creates an emitter writing through the given alert store.
func NewEmitter(alerts store.AlertStore, cfg EmitterConfig) *Emitter {
	if cfg.DeadlineWindow <= 0 {
		cfg.DeadlineWindow = DefaultEmitterConfig().DeadlineWindow
	}
	if cfg.EfficiencyThreshold <= 0 {
		cfg.EfficiencyThreshold = DefaultEmitterConfig().EfficiencyThreshold
	}
	if cfg.EfficiencyLookback <= 0 {
		cfg.EfficiencyLookback = DefaultEmitterConfig().EfficiencyLookback
	}
	return &Emitter{alerts: alerts, cfg: cfg}
}

var reviewerRoles = []string{
	string(auth.RoleSupervisor),
	string(auth.RolePlanner),
	string(auth.RoleAdmin),
}

// Evaluate inspects a job order and persists any alert whose condition
// holds and that is not already open. Re-evaluating an already-alerted
// order creates no duplicates. Returns the alerts created by this call.
func (e *Emitter) Evaluate(ctx context.Context, tx store.DBTransaction, order *store.JobOrder, now time.Time) ([]store.Alert, error) {
	var created []store.Alert

	if order.IsDelayed(now) {
		alert, err := e.emitOnce(ctx, tx, store.Alert{
			Type:       store.AlertTypeDelay,
			Severity:   store.SeverityHigh,
			Title:      fmt.Sprintf("Job order %s is delayed", order.Number),
			Message:    fmt.Sprintf("Job order %s (%s) passed its due date with %d of %d units completed.", order.Number, order.ProductName, order.CompletedQuantity, order.TotalQuantity),
			JobOrderID: &order.ID,
		}, order.ID, now)
		if err != nil {
			return created, err
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}

	if order.Status == store.JobOrderStatusInProgress &&
		now.Before(order.DueDate) && order.DueDate.Sub(now) <= e.cfg.DeadlineWindow {
		alert, err := e.emitOnce(ctx, tx, store.Alert{
			Type:       store.AlertTypeDeadline,
			Severity:   store.SeverityMedium,
			Title:      fmt.Sprintf("Job order %s is due soon", order.Number),
			Message:    fmt.Sprintf("Job order %s (%s) is due %s and is at %.2f%%.", order.Number, order.ProductName, order.DueDate.Format("2006-01-02"), order.ProgressPercentage()),
			JobOrderID: &order.ID,
		}, order.ID, now)
		if err != nil {
			return created, err
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}

	return created, nil
}

// EvaluateTechnician raises a low-performance alert when the rolling
// efficiency is under the configured floor. Deduplicated per technician
// while unresolved.
func (e *Emitter) EvaluateTechnician(ctx context.Context, tx store.DBTransaction, technicianID uuid.UUID, efficiency float64, now time.Time) (*store.Alert, error) {
	if efficiency >= e.cfg.EfficiencyThreshold {
		return nil, nil
	}
	return e.emitOnce(ctx, tx, store.Alert{
		Type:         store.AlertTypeLowPerformance,
		Severity:     store.SeverityMedium,
		Title:        "Technician efficiency below threshold",
		Message:      fmt.Sprintf("Rolling efficiency %.0f%% is under the %.0f%% floor.", efficiency*100, e.cfg.EfficiencyThreshold*100),
		TechnicianID: &technicianID,
	}, technicianID, now)
}

// emitOnce inserts the alert unless an unresolved one of the same type
// already exists for the related entity. Returns nil when deduped.
func (e *Emitter) emitOnce(ctx context.Context, tx store.DBTransaction, alert store.Alert, relatedID uuid.UUID, now time.Time) (*store.Alert, error) {
	exists, err := e.alerts.HasUnresolvedAlert(ctx, tx, alert.Type, relatedID)
	if err != nil {
		return nil, fmt.Errorf("alert dedupe check: %w", err)
	}
	if exists {
		return nil, nil
	}

	alert.ID = uuid.New()
	alert.TargetRoles = reviewerRoles
	alert.CreatedAt = now
	if err := e.alerts.CreateAlert(ctx, tx, &alert); err != nil {
		return nil, fmt.Errorf("create %s alert: %w", alert.Type, err)
	}
	return &alert, nil
}

// RaiseQualityIssue records a supervisor-raised quality alert on a task.
func (s *Service) RaiseQualityIssue(ctx context.Context, taskID uuid.UUID, message string, actor Actor) (*store.Alert, error) {
	if !actor.Role.CanReview() {
		return nil, &PermissionError{Action: "raise quality issues", Role: actor.Role}
	}
	if message == "" {
		return nil, &ValidationError{Field: "message", Reason: "required"}
	}

	var alert *store.Alert
	err := s.inTx(ctx, func(tx store.Tx) error {
		task, err := s.loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		now := s.now()
		alert = &store.Alert{
			ID:           uuid.New(),
			Type:         store.AlertTypeQualityIssue,
			Severity:     store.SeverityHigh,
			Title:        "Quality issue reported",
			Message:      message,
			JobOrderID:   &task.JobOrderID,
			TechnicianID: &task.TechnicianID,
			TaskID:       &task.ID,
			TargetRoles:  reviewerRoles,
			CreatedAt:    now,
		}
		return s.store.CreateAlert(ctx, tx, alert)
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// MarkAlertRead flags an alert as seen.
func (s *Service) MarkAlertRead(ctx context.Context, alertID uuid.UUID, actor Actor) error {
	return s.inTx(ctx, func(tx store.Tx) error {
		return s.store.MarkAlertRead(ctx, tx, alertID)
	})
}

// ResolveAlert closes an alert, recording who resolved it and when.
func (s *Service) ResolveAlert(ctx context.Context, alertID uuid.UUID, actor Actor) error {
	if !actor.Role.CanReview() {
		return &PermissionError{Action: "resolve alerts", Role: actor.Role}
	}
	return s.inTx(ctx, func(tx store.Tx) error {
		return s.store.MarkAlertResolved(ctx, tx, alertID, actor.ID, s.now())
	})
}

// ListAlerts returns alerts matching the filter.
func (s *Service) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]store.Alert, error) {
	return s.store.ListAlerts(ctx, filter)
}
