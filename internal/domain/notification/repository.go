package notification

import "context"

// DefaultListLimit bounds how many notifications a customer pull returns
const DefaultListLimit = 100

// NotificationRepository persists notifications
type NotificationRepository interface {
	// Create inserts the notification and assigns its ID
	Create(ctx context.Context, n *Notification) error

	// FindByID returns ErrNotificationNotFound when missing
	FindByID(ctx context.Context, id uint) (*Notification, error)

	// ListForEmail returns the newest notifications targeted at email, up to limit
	ListForEmail(ctx context.Context, email string, limit int) ([]Notification, error)

	// UpdateRead stores the read flag
	UpdateRead(ctx context.Context, id uint, read bool) error
}
