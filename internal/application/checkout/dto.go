package checkout

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// LineInput is one requested order line
type LineInput struct {
	ItemID   uint `json:"itemId" validate:"gt=0"`
	Quantity int  `json:"qty" validate:"gt=0"`
}

// PlaceOrderInput is the checkout request. IdempotencyKey is optional and
// comes from the Idempotency-Key header.
type PlaceOrderInput struct {
	CustomerName    string      `json:"customerName" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Mobile          string      `json:"mobile" validate:"required,min=7"`
	BillingAddress  string      `json:"billingAddress" validate:"required,min=5"`
	ShippingAddress string      `json:"shippingAddress" validate:"required,min=5"`
	PaymentMethod   string      `json:"paymentMethod" validate:"required,oneof=CARD UPI BANK_TRANSFER COD"`
	Lines           []LineInput `json:"lines" validate:"min=1,dive"`
	IdempotencyKey  string      `json:"-"`
}

// OrderResponse is an order with its lines and tracking log
type OrderResponse struct {
	ID              uint                    `json:"id"`
	CustomerName    string                  `json:"customerName"`
	Email           string                  `json:"email"`
	Mobile          string                  `json:"mobile"`
	BillingAddress  string                  `json:"billingAddress"`
	ShippingAddress string                  `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentStatus   string                  `json:"paymentStatus"`
	TrackingStatus  string                  `json:"trackingStatus"`
	Total           decimal.Decimal         `json:"total"`
	Lines           []OrderLineResponse     `json:"lines"`
	Events          []TrackingEventResponse `json:"events"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// OrderLineResponse is one order line with its price snapshot
type OrderLineResponse struct {
	ID        uint            `json:"id"`
	ItemID    uint            `json:"itemId"`
	ItemName  string          `json:"itemName"`
	ItemSKU   string          `json:"itemSku"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// TrackingEventResponse is one tracking log entry
type TrackingEventResponse struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToOrderResponse converts a loaded order
func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		CustomerName:    o.Name,
		Email:           o.Email,
		Mobile:          o.Mobile,
		BillingAddress:  o.BillingAddress,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod.String(),
		PaymentStatus:   o.PaymentStatus.String(),
		TrackingStatus:  o.TrackingStatus.String(),
		Total:           o.Total,
		Lines:           make([]OrderLineResponse, 0, len(o.Lines)),
		Events:          ToTrackingEventResponses(o.Events),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			ItemSKU:   l.ItemSKU,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		})
	}
	return resp
}

// ToTrackingEventResponses converts a tracking log, keeping its order
func ToTrackingEventResponses(events []order.TrackingEvent) []TrackingEventResponse {
	out := make([]TrackingEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, TrackingEventResponse{
			ID:        e.ID,
			Status:    e.Status.String(),
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
