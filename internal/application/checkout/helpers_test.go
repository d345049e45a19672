package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type harness struct {
	db      *gorm.DB
	items   *persistence.GormItemRepository
	orders  *persistence.GormOrderRepository
	bus     *event.InMemoryEventBus
	events  *recordingHandler
	service *Service
}

func newHarness(t *testing.T, opts ...Option) *harness {
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

	h := &harness{
		db:     db,
		items:  persistence.NewGormItemRepository(db),
		orders: persistence.NewGormOrderRepository(db),
		bus:    event.NewInMemoryEventBus(zap.NewNop()),
		events: &recordingHandler{},
	}
	h.bus.Subscribe(h.events)
	h.service = NewService(persistence.NewGormTransactionScope(db), h.orders, h.bus, zap.NewNop(), opts...)
	return h
}

func (h *harness) seed(t *testing.T, sku, name, price string, qty int) *inventory.Item {
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
	require.NoError(t, h.items.UpsertBySKU(context.Background(), item))
	return item
}

func (h *harness) stock(t *testing.T, id uint) int {
	t.Helper()
	item, err := h.items.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

func (h *harness) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table("orders").Count(&n).Error)
	return n
}

func validInput(lines ...LineInput) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:    "Ana Lima",
		Email:           "Ana@Example.com",
		Mobile:          "5550100200",
		BillingAddress:  "12 Harbour Road",
		ShippingAddress: "12 Harbour Road",
		PaymentMethod:   "CARD",
		Lines:           lines,
	}
}

// recordingHandler receives every event published on the bus
type recordingHandler struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return nil
}

func (h *recordingHandler) EventTypes() []string { return nil }

func (h *recordingHandler) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.EventType())
	}
	return out
}
