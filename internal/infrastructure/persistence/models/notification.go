package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notifications.
// A NULL email marks a broadcast.
type NotificationModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   *uint     `gorm:"index"`
	Email     *string   `gorm:"type:varchar(254);index:idx_notifications_email_created,priority:1"`
	Type      string    `gorm:"type:varchar(30);not null"`
	Message   string    `gorm:"type:varchar(500);not null"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index:idx_notifications_email_created,priority:2"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Email:     m.Email,
		Type:      notification.Type(m.Type),
		Message:   m.Message,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Email:     n.Email,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
