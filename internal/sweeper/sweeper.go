// Package sweeper periodically re-evaluates alert conditions that are not
// tied to a write: delays that appear with the passage of time, approaching
// deadlines, and technician efficiency drift.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"workfloor/internal/core"
	"workfloor/internal/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Store is the slice of the data layer the sweeper needs.
type Store interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	GetJobOrderByID(ctx context.Context, tx store.DBTransaction, id uuid.UUID) (*store.JobOrder, error)
	ListActiveJobOrders(ctx context.Context) ([]store.JobOrder, error)
	ListRecentTechnicianIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)
	TechnicianEfficiency(ctx context.Context, technicianID uuid.UUID, since time.Time) (float64, bool, error)
}

// Config holds the sweep cadence and the efficiency lookback window.
type Config struct {
	Interval           time.Duration
	EfficiencyLookback time.Duration
}

// Sweeper runs the periodic evaluation loop.
type Sweeper struct {
	store   Store
	emitter *core.Emitter
	log     *slog.Logger
	cfg     Config
	now     func() time.Time
}

// New creates a sweeper.
func New(s Store, emitter *core.Emitter, cfg Config, log *slog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EfficiencyLookback <= 0 {
		cfg.EfficiencyLookback = 7 * 24 * time.Hour
	}
	return &Sweeper{
		store:   s,
		emitter: emitter,
		log:     log,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps immediately, then on every tick, until the context is
// cancelled. Errors are logged, never fatal; the next tick retries.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if err := s.Sweep(ctx); err != nil {
		s.log.Error("sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error("sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one full pass over active job orders and recent technicians.
func (s *Sweeper) Sweep(ctx context.Context) error {
	tracer := otel.Tracer("workfloor-sweeper")
	ctx, span := tracer.Start(ctx, "sweep")
	defer span.End()

	created, err := s.sweepJobOrders(ctx)
	if err != nil {
		return err
	}

	techCreated, err := s.sweepTechnicians(ctx)
	if err != nil {
		return err
	}
	created += techCreated

	span.SetAttributes(attribute.Int("alerts.created", created))
	if created > 0 {
		s.log.Info("sweep created alerts", "count", created)
	}
	return nil
}

// sweepJobOrders re-evaluates every non-terminal order. Each order gets its
// own transaction so one failure does not poison the rest of the pass, and
// the order is re-read inside the transaction since the listing may be
// stale by then.
func (s *Sweeper) sweepJobOrders(ctx context.Context) (int, error) {
	orders, err := s.store.ListActiveJobOrders(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range orders {
		n, err := s.evaluateOrder(ctx, orders[i].ID)
		if err != nil {
			s.log.Error("order sweep failed", "job_order_id", orders[i].ID, "error", err)
			continue
		}
		created += n
	}
	return created, nil
}

func (s *Sweeper) evaluateOrder(ctx context.Context, id uuid.UUID) (int, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	order, err := s.store.GetJobOrderByID(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	alerts, err := s.emitter.Evaluate(ctx, tx, order, s.now())
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(alerts), nil
}

// sweepTechnicians checks the rolling efficiency of every technician with
// recent work against the configured floor.
func (s *Sweeper) sweepTechnicians(ctx context.Context) (int, error) {
	since := s.now().Add(-s.cfg.EfficiencyLookback)

	ids, err := s.store.ListRecentTechnicianIDs(ctx, since)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, id := range ids {
		n, err := s.evaluateTechnician(ctx, id, since)
		if err != nil {
			s.log.Error("technician sweep failed", "technician_id", id, "error", err)
			continue
		}
		created += n
	}
	return created, nil
}

func (s *Sweeper) evaluateTechnician(ctx context.Context, id uuid.UUID, since time.Time) (int, error) {
	eff, ok, err := s.store.TechnicianEfficiency(ctx, id, since)
	if err != nil {
		return 0, err
	}
	if !ok {
		// No measurable work in the window.
		return 0, nil
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	alert, err := s.emitter.EvaluateTechnician(ctx, tx, id, eff, s.now())
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if alert != nil {
		return 1, nil
	}
	return 0, nil
}
