package realtime

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Hub pushes notifications and tracking updates to live subscribers
// through the Registry. Delivery is best-effort: a subscriber that is not
// connected simply misses the push and reads the persisted record later.
type Hub struct {
	registry *Registry
	metrics  *telemetry.StorefrontMetrics
	logger   *zap.Logger
}

// NewHub creates a hub over registry. metrics may be nil.
func NewHub(registry *Registry, metrics *telemetry.StorefrontMetrics, logger *zap.Logger) *Hub {
	return &Hub{
		registry: registry,
		metrics:  metrics,
		logger:   logger.Named("realtime_hub"),
	}
}

// Registry returns the underlying subscription registry
func (h *Hub) Registry() *Registry {
	return h.registry
}

// PublishNotification sends notification.new to the target customer, or to
// every subscriber when the notification has no target.
func (h *Hub) PublishNotification(ctx context.Context, n *notification.Notification) error {
	msg, err := NewMessage(EventNotificationNew, NewNotificationPayload(n))
	if err != nil {
		return err
	}

	var delivered int
	if n.IsBroadcast() {
		delivered = h.registry.Broadcast(msg)
	} else {
		delivered = h.registry.SendTo(n.Target(), msg)
	}
	h.metrics.RecordPushed(ctx, EventNotificationNew, delivered)

	h.logger.Debug("notification pushed",
		zap.Uint("notification_id", n.ID),
		zap.String("customer", n.Target()),
		zap.Int("delivered", delivered))
	return nil
}

// PublishTracking sends order.tracking to the customer's connections
func (h *Hub) PublishTracking(ctx context.Context, email string, update notification.TrackingUpdate) error {
	msg, err := NewMessage(EventOrderTracking, update)
	if err != nil {
		return err
	}

	delivered := h.registry.SendTo(email, msg)
	h.metrics.RecordPushed(ctx, EventOrderTracking, delivered)

	h.logger.Debug("tracking update pushed",
		zap.Uint("order_id", update.OrderID),
		zap.String("status", update.Status.String()),
		zap.Int("delivered", delivered))
	return nil
}

// HeartbeatMessage builds the keep-alive event written on idle streams
func HeartbeatMessage(now time.Time) Message {
	msg, _ := NewMessage(EventHeartbeat, heartbeatPayload{Timestamp: now.Unix()})
	return msg
}
