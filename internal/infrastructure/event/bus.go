// Package event carries domain events from checkout and the tracking engine
// to the notification and stock handlers inside one process.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// subscription binds a handler to the event types it receives.
// An empty type set receives everything.
type subscription struct {
	handler shared.EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventBus dispatches domain events to subscribed handlers on the
// publishing goroutine, in subscription order. Handler failures are logged
// and never reach the publisher since the originating transaction has
// already committed.
type InMemoryEventBus struct {
	mu            sync.RWMutex
	subscriptions []subscription

	logger    *zap.Logger
	running   atomic.Bool
	published atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates an empty bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: log.Named("event_bus")}
}

// Publish hands every event to the handlers subscribed to its type
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.published.Add(1)
		for _, h := range b.handlersFor(evt.EventType()) {
			start := time.Now()
			if err := b.dispatch(ctx, h, evt); err != nil {
				b.failed.Add(1)
				logger.WithLogger(ctx, b.logger).Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Uint("aggregate_id", evt.AggregateID()),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe adds handler for eventTypes, falling back to the handler's own
// EventTypes when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	b.subscriptions = append(b.subscriptions, subscription{handler: handler, types: slices.Clone(eventTypes)})
	b.mu.Unlock()
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe drops every subscription of handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = slices.DeleteFunc(b.subscriptions, func(s subscription) bool {
		return s.handler == handler
	})
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []shared.EventHandler
	for _, s := range b.subscriptions {
		if s.wants(eventType) {
			out = append(out, s.handler)
		}
	}
	return out
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop marks the bus as stopped and logs its counters
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped",
		zap.Int64("published", b.published.Load()),
		zap.Int64("failed", b.failed.Load()),
	)
	return nil
}

// Stats returns the number of published events and failed handler dispatches
func (b *InMemoryEventBus) Stats() (published, failed int64) {
	return b.published.Load(), b.failed.Load()
}

// dispatch turns a handler panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, evt)
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
