package checkout

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LowStockHandler reports items that a checkout left at or below their
// low-stock threshold
type LowStockHandler struct {
	metrics *telemetry.StorefrontMetrics
	logger  *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler. metrics may be nil.
func NewLowStockHandler(metrics *telemetry.StorefrontMetrics, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeItemLowStock}
}

// Handle logs the signal and counts it
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.ItemLowStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeItemLowStock, event.EventType())
	}

	h.logger.Warn("item stock low",
		zap.Uint("item_id", e.ItemID),
		zap.String("sku", e.SKU),
		zap.String("name", e.Name),
		zap.Int("quantity", e.Quantity),
		zap.Int("threshold", e.Threshold))
	h.metrics.RecordLowStock(ctx, e.SKU)
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
