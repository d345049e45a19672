package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory sqlite database. A single connection
// keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// newMockDB returns a postgres-dialect gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedItem(t *testing.T, db *gorm.DB, sku, name, price string, qty int) *inventory.Item {
	t.Helper()

	item, err := inventory.NewItem(inventory.ItemSpec{
		SKU:         sku,
		Name:        name,
		Category:    "Grocery",
		Subcategory: "Staples",
		Description: name + " from the farm",
		Price:       decimal.RequireFromString(price),
		Quantity:    qty,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormItemRepository(db).UpsertBySKU(context.Background(), item))
	return item
}

func placeOrder(t *testing.T, db *gorm.DB, email string, lines ...order.OrderLine) *order.Order {
	t.Helper()

	o, err := order.Place(order.Customer{
		Name:            "Ana",
		Email:           email,
		Mobile:          "5550100200",
		BillingAddress:  "1 Main Street",
		ShippingAddress: "1 Main Street",
	}, order.PaymentMethodCard, lines, time.Now())
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), o))
	return o
}
