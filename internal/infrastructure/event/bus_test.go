package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, aggID uint) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", aggID)}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *testHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, evt)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("routes by event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		placed := &testHandler{eventTypes: []string{"OrderPlaced"}}
		advanced := &testHandler{eventTypes: []string{"OrderTrackingAdvanced"}}
		all := &testHandler{}
		bus.Subscribe(placed)
		bus.Subscribe(advanced)
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("OrderPlaced", 1),
			newTestEvent("OrderTrackingAdvanced", 1),
			newTestEvent("OrderTrackingAdvanced", 2),
		))

		assert.Equal(t, 1, placed.count())
		assert.Equal(t, 2, advanced.count())
		assert.Equal(t, 3, all.count())
		published, failed := bus.Stats()
		assert.EqualValues(t, 3, published)
		assert.Zero(t, failed)
	})

	t.Run("handler errors and panics are isolated", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := &testHandler{eventTypes: []string{"OrderPlaced"}, err: errors.New("broker down")}
		panicking := &testHandler{eventTypes: []string{"OrderPlaced"}, panicWith: "boom"}
		healthy := &testHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newTestEvent("OrderPlaced", 5))

		require.NoError(t, err)
		assert.Equal(t, 1, healthy.count())
		_, failed := bus.Stats()
		assert.EqualValues(t, 2, failed)
		assert.Equal(t, 2, recorded.FilterMessage("event handler failed").Len())
	})

	t.Run("unsubscribed handler receives nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &testHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1)))
		assert.Zero(t, h.count())
	})

	t.Run("explicit types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &testHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(h, "LowStock")

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("OrderPlaced", 1),
			newTestEvent("LowStock", 9),
		))
		require.Equal(t, 1, h.count())
		assert.Equal(t, "LowStock", h.handled[0].EventType())
	})
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.running.Load())
	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.running.Load())
}
