package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/application/tracking"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader lets a client retry checkout without placing twice
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutService places and lists orders
type CheckoutService interface {
	PlaceOrder(ctx context.Context, input checkout.PlaceOrderInput) (*checkout.OrderResponse, error)
	ListOrders(ctx context.Context, email string) ([]checkout.OrderResponse, error)
}

// TrackingReader reads an order's tracking log
type TrackingReader interface {
	GetTracking(ctx context.Context, orderID uint) (*tracking.TrackingResponse, error)
}

// OrderHandler serves checkout and order tracking
type OrderHandler struct {
	BaseHandler
	checkout CheckoutService
	tracking TrackingReader
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout CheckoutService, tracking TrackingReader) *OrderHandler {
	return &OrderHandler{checkout: checkout, tracking: tracking}
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Place an order
// @Description  Reserves stock for every line and creates a PAID order in one transaction
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client retry key"
// @Param        request body checkout.PlaceOrderInput true "Order request"
// @Success      201 {object} APIResponse[checkout.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var input checkout.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.InvalidJSON(c)
		return
	}
	input.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	order, err := h.checkout.PlaceOrder(customerContext(c, input.Email), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ListOrders godoc
// @ID           listOrders
// @Summary      List a customer's orders
// @Tags         orders
// @Produce      json
// @Param        email query string true "Customer email"
// @Success      200 {object} APIResponse[[]checkout.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	email := c.Query("email")
	orders, err := h.checkout.ListOrders(customerContext(c, email), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetTracking godoc
// @ID           getOrderTracking
// @Summary      Read an order's tracking log
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[tracking.TrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id}/tracking [get]
func (h *OrderHandler) GetTracking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.Fail(c, dto.ErrCodeBadRequest, "Invalid order ID")
		return
	}

	resp, err := h.tracking.GetTracking(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
