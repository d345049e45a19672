package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	BaseModel
	CustomerName    string               `gorm:"type:varchar(200);not null"`
	Email           string               `gorm:"type:varchar(254);not null;index"`
	Mobile          string               `gorm:"type:varchar(32);not null"`
	BillingAddress  string               `gorm:"type:text;not null"`
	ShippingAddress string               `gorm:"type:text;not null"`
	PaymentMethod   string               `gorm:"type:varchar(20);not null"`
	PaymentStatus   string               `gorm:"type:varchar(20);not null"`
	TrackingStatus  string               `gorm:"type:varchar(30);not null;index"`
	Total           decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Lines           []OrderLineModel     `gorm:"foreignKey:OrderID"`
	Events          []TrackingEventModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order. Lines and
// events are carried over only when they were preloaded.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.Entity()},
		Customer: order.Customer{
			Name:            m.CustomerName,
			Email:           m.Email,
			Mobile:          m.Mobile,
			BillingAddress:  m.BillingAddress,
			ShippingAddress: m.ShippingAddress,
		},
		PaymentMethod:  order.PaymentMethod(m.PaymentMethod),
		PaymentStatus:  order.PaymentStatus(m.PaymentStatus),
		TrackingStatus: order.TrackingStatus(m.TrackingStatus),
		Total:          m.Total,
	}
	if len(m.Lines) > 0 {
		o.Lines = make([]order.OrderLine, len(m.Lines))
		for i := range m.Lines {
			o.Lines[i] = m.Lines[i].ToDomain()
		}
	}
	if len(m.Events) > 0 {
		o.Events = make([]order.TrackingEvent, len(m.Events))
		for i := range m.Events {
			o.Events[i] = m.Events[i].ToDomain()
		}
	}
	return o
}

// OrderModelFromDomain creates the order row without its children
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		CustomerName:    o.Customer.Name,
		Email:           o.Customer.Email,
		Mobile:          o.Customer.Mobile,
		BillingAddress:  o.Customer.BillingAddress,
		ShippingAddress: o.Customer.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		TrackingStatus:  string(o.TrackingStatus),
		Total:           o.Total,
	}
	m.BaseModel = baseModel(o.BaseEntity)
	return m
}

// OrderLineModel is an immutable order line with the item name and SKU
// captured at checkout
type OrderLineModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"not null;index"`
	ItemID    uint            `gorm:"not null;index"`
	ItemName  string          `gorm:"type:varchar(200);not null"`
	ItemSKU   string          `gorm:"type:varchar(64);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine
func (m *OrderLineModel) ToDomain() order.OrderLine {
	return order.OrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		ItemSKU:   m.ItemSKU,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
	}
}

// OrderLineModelFromDomain creates a persistence model from a domain OrderLine
func OrderLineModelFromDomain(l *order.OrderLine) *OrderLineModel {
	return &OrderLineModel{
		ID:        l.ID,
		OrderID:   l.OrderID,
		ItemID:    l.ItemID,
		ItemName:  l.ItemName,
		ItemSKU:   l.ItemSKU,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		CreatedAt: l.CreatedAt,
	}
}

// TrackingEventModel is one row of an order's append-only tracking log
type TrackingEventModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uint      `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(30);not null"`
	Note      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "tracking_events"
}

// ToDomain converts the persistence model to a domain TrackingEvent
func (m *TrackingEventModel) ToDomain() order.TrackingEvent {
	return order.TrackingEvent{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    order.TrackingStatus(m.Status),
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// TrackingEventModelFromDomain creates a persistence model from a domain TrackingEvent
func TrackingEventModelFromDomain(e *order.TrackingEvent) *TrackingEventModel {
	return &TrackingEventModel{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Status:    string(e.Status),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}
