package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/checkout"
	appnotification "github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/infrastructure/realtime"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storefront wires checkout, tracking and notification fan-out over sqlite
type storefront struct {
	db       *gorm.DB
	items    *persistence.GormItemRepository
	orders   *persistence.GormOrderRepository
	registry *realtime.Registry
	checkout *checkout.Service
	engine   *Engine
	clock    *fakeClock
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStorefront(t *testing.T, opts ...EngineOption) *storefront {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	bus := event.NewInMemoryEventBus(log)
	registry := realtime.NewRegistry(log)
	hub := realtime.NewHub(registry, nil, log)

	notifications := appnotification.NewService(persistence.NewGormNotificationRepository(db), hub, log)
	bus.Subscribe(appnotification.NewOrderEventHandler(notifications, log))

	orders := persistence.NewGormOrderRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	return &storefront{
		db:       db,
		items:    persistence.NewGormItemRepository(db),
		orders:   orders,
		registry: registry,
		checkout: checkout.NewService(txScope, orders, bus, log, checkout.WithClock(clock.Now)),
		engine:   NewEngine(txScope, orders, bus, log, append([]EngineOption{WithClock(clock.Now)}, opts...)...),
		clock:    clock,
	}
}

func (s *storefront) seed(t *testing.T, sku, name, price string, qty int) *inventory.Item {
	t.Helper()

	item, err := inventory.NewItem(inventory.ItemSpec{
		SKU:         sku,
		Name:        name,
		Category:    "Grocery",
		Subcategory: "Staples",
		Price:       decimal.RequireFromString(price),
		Quantity:    qty,
	})
	require.NoError(t, err)
	require.NoError(t, s.items.UpsertBySKU(context.Background(), item))
	return item
}

func (s *storefront) place(t *testing.T, email string, itemID uint, qty int) *checkout.OrderResponse {
	t.Helper()

	resp, err := s.checkout.PlaceOrder(context.Background(), checkout.PlaceOrderInput{
		CustomerName:    "Ana Lima",
		Email:           email,
		Mobile:          "5550100200",
		BillingAddress:  "12 Harbour Road",
		ShippingAddress: "12 Harbour Road",
		PaymentMethod:   "UPI",
		Lines:           []checkout.LineInput{{ItemID: itemID, Quantity: qty}},
	})
	require.NoError(t, err)
	s.clock.Advance(time.Second)
	return resp
}

func (s *storefront) load(t *testing.T, id uint) *order.Order {
	t.Helper()
	o, err := s.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

// drain returns the queued messages grouped by event name
func drain(conn *realtime.Connection) map[string][]realtime.Message {
	out := make(map[string][]realtime.Message)
	for {
		select {
		case msg := <-conn.Messages():
			out[msg.Event] = append(out[msg.Event], msg)
		default:
			return out
		}
	}
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByEmail(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAdvanceable(ctx context.Context, limit int) ([]order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindEvents(ctx context.Context, orderID uint) ([]order.TrackingEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.TrackingEvent), args.Error(1)
}

func (m *MockOrderRepository) SaveTracking(ctx context.Context, o *order.Order, previous order.TrackingStatus, event *order.TrackingEvent) error {
	return m.Called(ctx, o, previous, event).Error(0)
}
