package notification

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderEventHandler turns committed order events into customer notifications
type OrderEventHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewOrderEventHandler creates a handler for OrderPlaced and
// OrderTrackingAdvanced events
func NewOrderEventHandler(service *Service, logger *zap.Logger) *OrderEventHandler {
	return &OrderEventHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderEventHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, order.EventTypeOrderTrackingAdvanced}
}

// Handle dispatches on the concrete event type
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		return h.handlePlaced(ctx, e)
	case *order.OrderTrackingAdvancedEvent:
		return h.handleAdvanced(ctx, e)
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *OrderEventHandler) handlePlaced(ctx context.Context, e *order.OrderPlacedEvent) error {
	orderID := e.OrderID
	_, err := h.service.Notify(ctx, NotifyInput{
		Type:    notification.TypeOrderCreated,
		Message: notification.OrderCreatedMessage(orderID),
		Email:   e.CustomerEmail,
		OrderID: &orderID,
	})
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, err)
	}
	return nil
}

func (h *OrderEventHandler) handleAdvanced(ctx context.Context, e *order.OrderTrackingAdvancedEvent) error {
	orderID := e.OrderID
	_, err := h.service.Notify(ctx, NotifyInput{
		Type:    notification.TypeOrderTracking,
		Message: notification.OrderTrackingMessage(orderID, e.Status),
		Email:   e.CustomerEmail,
		OrderID: &orderID,
	})

	h.service.PushTracking(ctx, e.CustomerEmail, notification.TrackingUpdate{
		OrderID:   orderID,
		Status:    e.Status,
		Note:      e.Note,
		CreatedAt: e.AdvancedAt,
	})

	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, err)
	}
	return nil
}

var _ shared.EventHandler = (*OrderEventHandler)(nil)
