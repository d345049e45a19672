// Package tracking moves paid orders through the fulfilment pipeline on a
// fixed cadence and serves the tracking log to customers.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Defaults for the progression cadence
const (
	DefaultInterval  = 30 * time.Second
	DefaultBatchSize = 20
)

// ErrTickInProgress is returned by Tick when another tick has not finished
var ErrTickInProgress = errors.New("tracking tick already in progress")

// TickResult summarizes one tick
type TickResult struct {
	Selected int
	Advanced int
	Skipped  int
	Failed   int
}

// Engine advances every eligible order by exactly one step per tick. Each
// order is handled in its own transaction so one failure never blocks the
// rest of the batch.
type Engine struct {
	txScope   appshared.TransactionScope
	orderRepo order.OrderRepository
	events    shared.EventPublisher
	metrics   *telemetry.StorefrontMetrics
	logger    *zap.Logger
	batchSize int
	now       func() time.Time
	ticking   atomic.Bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithBatchSize caps how many orders one tick selects
func WithBatchSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithMetrics records tick and step metrics
func WithMetrics(m *telemetry.StorefrontMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a tracking engine
func NewEngine(
	txScope appshared.TransactionScope,
	orderRepo order.OrderRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		txScope:   txScope,
		orderRepo: orderRepo,
		events:    events,
		logger:    logger.Named("tracking"),
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TryBeginTick claims the tick guard. It returns false if a tick is running.
func (e *Engine) TryBeginTick() bool {
	return e.ticking.CompareAndSwap(false, true)
}

// EndTick releases the tick guard
func (e *Engine) EndTick() {
	e.ticking.Store(false)
}

// BatchSize returns the per-tick selection limit
func (e *Engine) BatchSize() int {
	return e.batchSize
}

// Tick selects up to BatchSize paid, undelivered orders, least recently
// updated first, and advances each one step. Overlapping calls return
// ErrTickInProgress without touching any order.
func (e *Engine) Tick(ctx context.Context) (TickResult, error) {
	if !e.TryBeginTick() {
		return TickResult{}, ErrTickInProgress
	}
	defer e.EndTick()

	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "tick",
		attribute.Int("batch_size", e.batchSize))
	defer span.End()

	start := time.Now()
	defer func() {
		e.metrics.RecordTick(ctx, time.Since(start))
	}()

	var result TickResult
	orders, err := e.orderRepo.FindAdvanceable(ctx, e.batchSize)
	if err != nil {
		telemetry.RecordError(span, err)
		return result, fmt.Errorf("failed to select advanceable orders: %w", err)
	}
	result.Selected = len(orders)

	for i := range orders {
		if ctx.Err() != nil {
			break
		}
		id := orders[i].ID
		err := e.advance(ctx, id)
		switch {
		case err == nil:
			result.Advanced++
		case errors.Is(err, order.ErrTrackingComplete), errors.Is(err, shared.ErrConcurrencyConflict):
			result.Skipped++
			e.logger.Debug("order skipped", zap.Uint("order_id", id), zap.Error(err))
		default:
			result.Failed++
			e.logger.Error("failed to advance order", zap.Uint("order_id", id), zap.Error(err))
		}
	}

	span.SetAttributes(
		attribute.Int("advanced", result.Advanced),
		attribute.Int("failed", result.Failed),
	)
	if result.Selected > 0 {
		e.logger.Info("tracking tick completed",
			zap.Int("selected", result.Selected),
			zap.Int("advanced", result.Advanced),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
			zap.Duration("duration", time.Since(start)))
	}
	return result, nil
}

// advance reloads the order inside a transaction, moves it one step and
// appends the tracking event. Events are published only after commit.
func (e *Engine) advance(ctx context.Context, id uint) error {
	var advanced *order.Order
	err := e.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous := o.TrackingStatus
		event, err := o.Advance(e.now())
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveTracking(ctx, o, previous, event); err != nil {
			return err
		}
		advanced = o
		return nil
	})
	if err != nil {
		return err
	}

	if e.events != nil {
		if err := e.events.Publish(ctx, advanced.GetDomainEvents()...); err != nil {
			e.logger.Error("failed to publish tracking events",
				zap.Uint("order_id", id), zap.Error(err))
		}
	}
	advanced.ClearDomainEvents()

	e.metrics.RecordTrackingAdvanced(ctx, advanced.TrackingStatus.String())
	e.logger.Debug("order advanced",
		zap.Uint("order_id", id),
		zap.String("status", advanced.TrackingStatus.String()))
	return nil
}

// Run performs one tick for a scheduler. A tick that is still in flight is
// not an error.
func (e *Engine) Run(ctx context.Context) error {
	var err error
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "tracking_tick",
	}, func(ctx context.Context) {
		_, err = e.Tick(ctx)
	})
	if errors.Is(err, ErrTickInProgress) {
		e.logger.Debug("previous tick still running, skipping")
		return nil
	}
	return err
}
