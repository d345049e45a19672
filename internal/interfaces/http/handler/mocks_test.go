package handler

import (
	"context"

	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/application/tracking"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, input checkout.PlaceOrderInput) (*checkout.OrderResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderResponse), args.Error(1)
}

func (m *MockCheckoutService) ListOrders(ctx context.Context, email string) ([]checkout.OrderResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.OrderResponse), args.Error(1)
}

type MockTrackingReader struct {
	mock.Mock
}

func (m *MockTrackingReader) GetTracking(ctx context.Context, orderID uint) (*tracking.TrackingResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.TrackingResponse), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListForCustomer(ctx context.Context, email string) ([]notification.Notification, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id uint, read bool) (*notification.Notification, error) {
	args := m.Called(ctx, id, read)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, in catalog.ListItemsInput) ([]catalog.ItemResponse, int64, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.ItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemService) Get(ctx context.Context, id uint) (*catalog.ItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ItemResponse), args.Error(1)
}

func (m *MockItemService) Categories(ctx context.Context) ([]inventory.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Category), args.Error(1)
}

func (m *MockItemService) Seed(ctx context.Context, in catalog.SeedItemsInput) ([]catalog.ItemResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemResponse), args.Error(1)
}
