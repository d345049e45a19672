package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/notification"
)

// Push event names
const (
	EventNotificationNew = "notification.new"
	EventOrderTracking   = "order.tracking"
	EventHeartbeat       = "heartbeat"
	EventConnected       = "connected"
)

// Message is one push event queued for a connection
type Message struct {
	Event string
	ID    string
	Data  []byte
}

// NewMessage encodes payload as the JSON body of an event
func NewMessage(event string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return Message{Event: event, Data: data}, nil
}

// NotificationPayload is the body of a notification.new event
type NotificationPayload struct {
	ID        uint      `json:"id"`
	OrderID   *uint     `json:"orderId"`
	Email     *string   `json:"customerEmail"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNotificationPayload converts a domain notification to its push payload
func NewNotificationPayload(n *notification.Notification) NotificationPayload {
	return NotificationPayload{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Email:     n.Email,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type heartbeatPayload struct {
	Timestamp int64 `json:"timestamp"`
}

type connectedPayload struct {
	ConnectionID string `json:"connectionId"`
	Broadcast    bool   `json:"broadcastOnly"`
	Timestamp    int64  `json:"timestamp"`
}

// ConnectedMessage is the first event written to a new subscriber
func ConnectedMessage(conn *Connection) Message {
	msg, _ := NewMessage(EventConnected, connectedPayload{
		ConnectionID: conn.ID,
		Broadcast:    conn.IsBroadcastOnly(),
		Timestamp:    conn.ConnectedAt.Unix(),
	})
	return msg
}
