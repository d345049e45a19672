package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	line := order.NewLine(1, "Apples", "SKU-1", 2, decimal.RequireFromString("1.50"))
	o, err := order.Place(order.Customer{
		Name:            "Ann",
		Email:           "Ann@Example.com",
		Mobile:          "5551234",
		BillingAddress:  "1 Main St",
		ShippingAddress: "1 Main St",
	}, order.PaymentMethodCard, []order.OrderLine{line}, time.Now())
	require.NoError(t, err)
	o.ID = 10
	return o
}

func TestOrderEventHandler_EventTypes(t *testing.T) {
	h := NewOrderEventHandler(nil, zap.NewNop())
	assert.ElementsMatch(t,
		[]string{order.EventTypeOrderPlaced, order.EventTypeOrderTrackingAdvanced},
		h.EventTypes())
}

func TestOrderEventHandler_OrderPlaced(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := &recordingPublisher{}
	h := NewOrderEventHandler(NewService(repo, pub, zap.NewNop()), zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	o := placedOrder(t)
	require.NoError(t, h.Handle(context.Background(), order.NewOrderPlacedEvent(o)))

	require.Len(t, pub.notifications, 1)
	n := pub.notifications[0]
	assert.Equal(t, notification.TypeOrderCreated, n.Type)
	assert.Equal(t, "ann@example.com", n.Target())
	assert.Equal(t, "Order #10 confirmed. We have started processing it.", n.Message)
	require.NotNil(t, n.OrderID)
	assert.Equal(t, uint(10), *n.OrderID)
	assert.Empty(t, pub.tracking)
}

func TestOrderEventHandler_TrackingAdvanced(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := &recordingPublisher{}
	h := NewOrderEventHandler(NewService(repo, pub, zap.NewNop()), zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	o := placedOrder(t)
	event, err := o.Advance(time.Now())
	require.NoError(t, err)
	advanced := order.NewOrderTrackingAdvancedEvent(o, order.TrackingPlaced, *event)

	require.NoError(t, h.Handle(context.Background(), advanced))

	require.Len(t, pub.notifications, 1)
	assert.Equal(t, notification.TypeOrderTracking, pub.notifications[0].Type)
	assert.Equal(t, "Order #10 is now CONFIRMED.", pub.notifications[0].Message)

	require.Len(t, pub.tracking, 1)
	assert.Equal(t, "ann@example.com", pub.tracking[0].Email)
	assert.Equal(t, order.TrackingConfirmed, pub.tracking[0].Update.Status)
	assert.Equal(t, "Order moved to CONFIRMED", pub.tracking[0].Update.Note)
}

func TestOrderEventHandler_TrackingPushSurvivesStorageFailure(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := &recordingPublisher{}
	h := NewOrderEventHandler(NewService(repo, pub, zap.NewNop()), zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	o := placedOrder(t)
	event, err := o.Advance(time.Now())
	require.NoError(t, err)

	err = h.Handle(context.Background(), order.NewOrderTrackingAdvancedEvent(o, order.TrackingPlaced, *event))
	assert.Error(t, err)
	assert.Empty(t, pub.notifications)
	assert.Len(t, pub.tracking, 1)
}

func TestOrderEventHandler_UnexpectedEvent(t *testing.T) {
	h := NewOrderEventHandler(nil, zap.NewNop())

	res := &inventory.Reservation{ItemID: 1, SKU: "SKU-1"}
	err := h.Handle(context.Background(), inventory.NewItemLowStockEvent(res))
	assert.Error(t, err)
}

var _ shared.DomainEvent = (*order.OrderPlacedEvent)(nil)
