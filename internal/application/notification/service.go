// Package notification implements the notification fan-out: every
// notification is persisted first and then pushed to live subscribers.
package notification

import (
	"context"
	"fmt"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// NotifyInput describes a notification to create. An empty Email makes it a
// broadcast.
type NotifyInput struct {
	Type    notification.Type
	Message string
	Email   string
	OrderID *uint
}

// Service persists and pushes notifications
type Service struct {
	repo      notification.NotificationRepository
	publisher Publisher
	logger    *zap.Logger
}

// NewService creates a new notification service
func NewService(repo notification.NotificationRepository, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify stores the notification and then pushes it. Only a storage failure
// is returned; a failed push is logged because the record can still be read.
func (s *Service) Notify(ctx context.Context, input NotifyInput) (*notification.Notification, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "notify")
	defer span.End()

	n, err := notification.New(input.Type, input.Message, input.Email, input.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	if err := s.publisher.PublishNotification(ctx, n); err != nil {
		s.logger.Warn("failed to push notification",
			zap.Uint("notification_id", n.ID),
			zap.String("customer", n.Target()),
			zap.Error(err))
	}

	return n, nil
}

// PushTracking pushes a tracking update to the customer. Nothing is stored:
// the tracking log itself is the durable record.
func (s *Service) PushTracking(ctx context.Context, email string, update notification.TrackingUpdate) {
	email = order.NormalizeEmail(email)
	if email == "" {
		return
	}
	if err := s.publisher.PublishTracking(ctx, email, update); err != nil {
		s.logger.Warn("failed to push tracking update",
			zap.Uint("order_id", update.OrderID),
			zap.String("status", update.Status.String()),
			zap.Error(err))
	}
}

// ListForCustomer returns the newest notifications targeted at email
func (s *Service) ListForCustomer(ctx context.Context, email string) ([]notification.Notification, error) {
	email = order.NormalizeEmail(email)
	if email == "" {
		return nil, appshared.NewValidationError("email", "This field is required")
	}

	list, err := s.repo.ListForEmail(ctx, email, notification.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

// MarkRead sets the read flag. Repeating the call with the same value changes
// nothing and still succeeds.
func (s *Service) MarkRead(ctx context.Context, id uint, read bool) (*notification.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !n.MarkRead(read) {
		return n, nil
	}
	if err := s.repo.UpdateRead(ctx, id, read); err != nil {
		return nil, err
	}
	return n, nil
}
