package notification

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/notification"
)

// Publisher delivers notifications and tracking updates to some sink
// (live subscribers, a message broker). Delivery is best-effort.
type Publisher interface {
	PublishNotification(ctx context.Context, n *notification.Notification) error
	PublishTracking(ctx context.Context, email string, update notification.TrackingUpdate) error
}

// FanOut publishes to every sink in order. One failing sink does not stop
// the others; their errors are joined.
type FanOut []Publisher

// PublishNotification implements Publisher
func (f FanOut) PublishNotification(ctx context.Context, n *notification.Notification) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishNotification(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishTracking implements Publisher
func (f FanOut) PublishTracking(ctx context.Context, email string, update notification.TrackingUpdate) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishTracking(ctx, email, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Publisher = FanOut(nil)
