package notification

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uint) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListForEmail(ctx context.Context, email string, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) UpdateRead(ctx context.Context, id uint, read bool) error {
	args := m.Called(ctx, id, read)
	return args.Error(0)
}

type trackingPush struct {
	Email  string
	Update notification.TrackingUpdate
}

// recordingPublisher collects everything published to it
type recordingPublisher struct {
	mu            sync.Mutex
	notifications []*notification.Notification
	tracking      []trackingPush
	err           error
}

func (p *recordingPublisher) PublishNotification(ctx context.Context, n *notification.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
	return p.err
}

func (p *recordingPublisher) PublishTracking(ctx context.Context, email string, update notification.TrackingUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracking = append(p.tracking, trackingPush{Email: email, Update: update})
	return p.err
}

func (p *recordingPublisher) notificationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.notifications)
}
