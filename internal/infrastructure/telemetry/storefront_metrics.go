package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("NewStorefrontMetrics: meter cannot be nil")

// LowStockCounter reports how many items sit at or below their threshold.
// ItemRepository satisfies it.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// StorefrontMetrics records checkout, tracking and push activity.
// A nil *StorefrontMetrics is valid and records nothing.
type StorefrontMetrics struct {
	logger *zap.Logger

	ordersPlaced         *Counter
	orderAmount          *Histogram
	checkoutRejected     *Counter
	lowStockEvents       *Counter
	trackingAdvanced     *Counter
	tickDuration         *Histogram
	notificationsPushed  *Counter
	notificationsDropped *Counter
	lowStockItems        *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewStorefrontMetrics registers every storefront instrument on meter.
func NewStorefrontMetrics(meter metric.Meter, logger *zap.Logger) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &StorefrontMetrics{
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.ordersPlaced, err = NewCounter(meter, "storefront_orders_placed_total",
		"Orders committed by checkout", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_order_amount",
		Description: "Order totals at checkout",
		Unit:        "{currency}",
		Boundaries:  OrderAmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.checkoutRejected, err = NewCounter(meter, "storefront_checkout_rejected_total",
		"Checkouts rejected before commit", "{orders}"); err != nil {
		return nil, err
	}
	if m.lowStockEvents, err = NewCounter(meter, "storefront_low_stock_events_total",
		"Reservations that left an item at or below its threshold", "{events}"); err != nil {
		return nil, err
	}
	if m.trackingAdvanced, err = NewCounter(meter, "storefront_tracking_advanced_total",
		"Orders moved one tracking step", "{orders}"); err != nil {
		return nil, err
	}
	if m.tickDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_tracking_tick_duration",
		Description: "Duration of one tracking tick",
		Unit:        "s",
		Boundaries:  TickDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.notificationsPushed, err = NewCounter(meter, "storefront_push_delivered_total",
		"Push events queued to live subscribers", "{messages}"); err != nil {
		return nil, err
	}
	if m.notificationsDropped, err = NewCounter(meter, "storefront_push_dropped_total",
		"Push events dropped on full subscriber queues", "{messages}"); err != nil {
		return nil, err
	}
	if m.lowStockItems, err = NewGauge(meter, "storefront_low_stock_items",
		"Items at or below their low-stock threshold", "{items}"); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOrderPlaced counts a committed order and its total.
func (m *StorefrontMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc(ctx, AttrPaymentMethod.String(paymentMethod))
	m.orderAmount.Record(ctx, total.InexactFloat64(), AttrPaymentMethod.String(paymentMethod))
}

// RecordCheckoutRejected counts a checkout that did not commit. outcome is
// the error code, e.g. INSUFFICIENT_STOCK.
func (m *StorefrontMetrics) RecordCheckoutRejected(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.checkoutRejected.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordLowStock counts a low-stock signal for sku.
func (m *StorefrontMetrics) RecordLowStock(ctx context.Context, sku string) {
	if m == nil {
		return
	}
	m.lowStockEvents.Inc(ctx, AttrItemSKU.String(sku))
}

// RecordTrackingAdvanced counts an order reaching status.
func (m *StorefrontMetrics) RecordTrackingAdvanced(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.trackingAdvanced.Inc(ctx, AttrTrackingStatus.String(status))
}

// RecordTick records how long a tracking tick took.
func (m *StorefrontMetrics) RecordTick(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.RecordDuration(ctx, d)
}

// RecordPushed counts delivered push messages for event.
func (m *StorefrontMetrics) RecordPushed(ctx context.Context, event string, delivered int) {
	if m == nil || delivered <= 0 {
		return
	}
	m.notificationsPushed.Add(ctx, int64(delivered), AttrEvent.String(event))
}

// RecordDropped counts one dropped push message for event.
func (m *StorefrontMetrics) RecordDropped(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.notificationsDropped.Inc(ctx, AttrEvent.String(event))
}

// StartLowStockCollection samples the low-stock gauge every interval until
// Stop is called or ctx ends. Only the first call starts a collector.
func (m *StorefrontMetrics) StartLowStockCollection(ctx context.Context, counter LowStockCounter, interval time.Duration) {
	if m == nil || counter == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go m.runLowStockCollection(ctx, counter, interval)
	})
}

func (m *StorefrontMetrics) runLowStockCollection(ctx context.Context, counter LowStockCounter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collectLowStock(ctx, counter)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectLowStock(ctx, counter)
		}
	}
}

func (m *StorefrontMetrics) collectLowStock(ctx context.Context, counter LowStockCounter) {
	count, err := counter.CountLowStock(ctx)
	if err != nil {
		m.logger.Warn("Failed to count low stock items", zap.Error(err))
		return
	}
	m.lowStockItems.Record(ctx, count)
}

// Stop ends low-stock collection.
func (m *StorefrontMetrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stopChan) })
}
