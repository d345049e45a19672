package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Type tags what a notification is about
type Type string

const (
	TypeOrderCreated  Type = "ORDER_CREATED"
	TypeOrderTracking Type = "ORDER_TRACKING"
	TypeSystem        Type = "SYSTEM"
)

// IsValid checks if the type is recognized
func (t Type) IsValid() bool {
	switch t {
	case TypeOrderCreated, TypeOrderTracking, TypeSystem:
		return true
	}
	return false
}

// Notification is a persisted message for one customer, or for everyone when
// Email is nil. Only the read flag changes after creation.
type Notification struct {
	ID        uint
	OrderID   *uint
	Email     *string
	Type      Type
	Message   string
	Read      bool
	CreatedAt time.Time
}

// New creates a notification. An empty email makes it a broadcast.
func New(typ Type, message string, email string, orderID *uint) (*Notification, error) {
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown notification type: %s", typ))
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification message cannot be empty")
	}

	n := &Notification{
		OrderID:   orderID,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if e := order.NormalizeEmail(email); e != "" {
		n.Email = &e
	}
	return n, nil
}

// IsBroadcast reports whether the notification has no customer target
func (n *Notification) IsBroadcast() bool {
	return n.Email == nil
}

// Target returns the routing email, or "" for a broadcast
func (n *Notification) Target() string {
	if n.Email == nil {
		return ""
	}
	return *n.Email
}

// MarkRead sets the read flag. Setting it to its current value is a no-op.
func (n *Notification) MarkRead(read bool) bool {
	if n.Read == read {
		return false
	}
	n.Read = read
	return true
}

// TrackingUpdate is the push payload sent when an order advances
type TrackingUpdate struct {
	OrderID   uint                 `json:"orderId"`
	Status    order.TrackingStatus `json:"status"`
	Note      string               `json:"note"`
	CreatedAt time.Time            `json:"createdAt"`
}

// OrderCreatedMessage is the text of the ORDER_CREATED notification
func OrderCreatedMessage(orderID uint) string {
	return fmt.Sprintf("Order #%d confirmed. We have started processing it.", orderID)
}

// OrderTrackingMessage is the text of an ORDER_TRACKING notification
func OrderTrackingMessage(orderID uint, status order.TrackingStatus) string {
	return fmt.Sprintf("Order #%d is now %s.", orderID, status.Label())
}

// ErrNotificationNotFound is returned when no notification has the given id
var ErrNotificationNotFound = shared.NewDomainError("NOT_FOUND", "Notification not found")
