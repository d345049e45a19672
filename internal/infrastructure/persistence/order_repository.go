package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row, then its lines, then its tracking events.
// Generated IDs are written back into o.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	db := r.db.WithContext(ctx)

	m := models.OrderModelFromDomain(o)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	o.ID = m.ID

	if len(o.Lines) > 0 {
		lines := make([]*models.OrderLineModel, len(o.Lines))
		for i := range o.Lines {
			o.Lines[i].OrderID = m.ID
			lines[i] = models.OrderLineModelFromDomain(&o.Lines[i])
		}
		if err := db.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}
		for i := range lines {
			o.Lines[i].ID = lines[i].ID
		}
	}

	if len(o.Events) > 0 {
		events := make([]*models.TrackingEventModel, len(o.Events))
		for i := range o.Events {
			o.Events[i].OrderID = m.ID
			events[i] = models.TrackingEventModelFromDomain(&o.Events[i])
		}
		if err := db.Create(&events).Error; err != nil {
			return fmt.Errorf("failed to create tracking events: %w", err)
		}
		for i := range events {
			o.Events[i].ID = events[i].ID
		}
	}
	return nil
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// FindByID loads an order with its lines and chronological tracking log
func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var m models.OrderModel
	if err := preloadChildren(r.db.WithContext(ctx)).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order %d: %w", id, err)
	}
	return m.ToDomain(), nil
}

// FindByEmail returns a customer's orders, newest first
func (r *GormOrderRepository) FindByEmail(ctx context.Context, email string) ([]order.Order, error) {
	var rows []models.OrderModel
	err := preloadChildren(r.db.WithContext(ctx)).
		Where("email = ?", order.NormalizeEmail(email)).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders by email: %w", err)
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// FindAdvanceable returns paid, undelivered orders, least recently updated first
func (r *GormOrderRepository) FindAdvanceable(ctx context.Context, limit int) ([]order.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND tracking_status <> ?", string(order.PaymentPaid), string(order.TrackingDelivered)).
		Order("updated_at ASC").Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select advanceable orders: %w", err)
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// FindEvents returns an order's tracking log in insertion order
func (r *GormOrderRepository) FindEvents(ctx context.Context, orderID uint) ([]order.TrackingEvent, error) {
	var rows []models.TrackingEventModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking events: %w", err)
	}

	events := make([]order.TrackingEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

// SaveTracking moves the stored status from previous to o.TrackingStatus and
// appends event. The status guard turns a lost race into a conflict instead
// of a duplicated step.
func (r *GormOrderRepository) SaveTracking(ctx context.Context, o *order.Order, previous order.TrackingStatus, event *order.TrackingEvent) error {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND tracking_status = ?", o.ID, string(previous)).
		Updates(map[string]any{
			"tracking_status": string(o.TrackingStatus),
			"updated_at":      o.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tracking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	event.OrderID = o.ID
	m := models.TrackingEventModelFromDomain(event)
	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to append tracking event: %w", err)
	}
	event.ID = m.ID
	return nil
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
