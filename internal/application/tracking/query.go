package tracking

import (
	"context"

	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/order"
)

// TrackingResponse is an order's current status with its full log
type TrackingResponse struct {
	OrderID        uint                             `json:"orderId"`
	TrackingStatus string                           `json:"trackingStatus"`
	Events         []checkout.TrackingEventResponse `json:"events"`
}

// QueryService reads tracking state
type QueryService struct {
	orderRepo order.OrderRepository
}

// NewQueryService creates a QueryService
func NewQueryService(orderRepo order.OrderRepository) *QueryService {
	return &QueryService{orderRepo: orderRepo}
}

// GetTracking returns the order's status and events, oldest first
func (s *QueryService) GetTracking(ctx context.Context, orderID uint) (*TrackingResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackingResponse{
		OrderID:        o.ID,
		TrackingStatus: o.TrackingStatus.String(),
		Events:         checkout.ToTrackingEventResponses(o.Events),
	}, nil
}
