package notification

import (
	"testing"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	orderID := uint(5)

	t.Run("targeted notification lowercases email", func(t *testing.T) {
		n, err := New(TypeOrderCreated, OrderCreatedMessage(orderID), " A@X.com", &orderID)
		require.NoError(t, err)
		require.NotNil(t, n.Email)
		assert.Equal(t, "a@x.com", n.Target())
		assert.False(t, n.IsBroadcast())
		assert.False(t, n.Read)
		assert.Equal(t, "Order #5 confirmed. We have started processing it.", n.Message)
	})

	t.Run("empty email is a broadcast", func(t *testing.T) {
		n, err := New(TypeSystem, "Store closes early today", "", nil)
		require.NoError(t, err)
		assert.True(t, n.IsBroadcast())
		assert.Equal(t, "", n.Target())
	})

	t.Run("rejects unknown type and empty message", func(t *testing.T) {
		_, err := New(Type("PROMO"), "hi", "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = New(TypeSystem, "  ", "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestNotification_MarkReadIsIdempotent(t *testing.T) {
	n := &Notification{}

	assert.True(t, n.MarkRead(true))
	assert.True(t, n.Read)

	assert.False(t, n.MarkRead(true))
	assert.True(t, n.Read)

	assert.True(t, n.MarkRead(false))
	assert.False(t, n.Read)
}

func TestOrderTrackingMessage(t *testing.T) {
	assert.Equal(t, "Order #12 is now OUT FOR DELIVERY.", OrderTrackingMessage(12, order.TrackingOutForDelivery))
	assert.Equal(t, "Order #12 is now CONFIRMED.", OrderTrackingMessage(12, order.TrackingConfirmed))
}
