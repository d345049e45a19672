package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Orders        *handler.OrderHandler
	Notifications *handler.NotificationHandler
	Items         *handler.ItemHandler
	Stream        *handler.StreamHandler
	System        *handler.SystemHandler
	// CheckoutLimit runs ahead of order placement when set
	CheckoutLimit gin.HandlerFunc
}

// StorefrontResources is the route table of the storefront API
func StorefrontResources(h Handlers) []RouteRegistrar {
	placeOrder := []gin.HandlerFunc{h.Orders.PlaceOrder}
	if h.CheckoutLimit != nil {
		placeOrder = append([]gin.HandlerFunc{h.CheckoutLimit}, placeOrder...)
	}

	return []RouteRegistrar{
		Resource{Prefix: "/orders", Routes: []Route{
			Post("", placeOrder...),
			Get("", h.Orders.ListOrders),
			Get("/:id/tracking", h.Orders.GetTracking),
		}},
		Resource{Prefix: "/notifications", Routes: []Route{
			Get("", h.Notifications.List),
			Patch("/:id/read", h.Notifications.MarkRead),
		}},
		Resource{Prefix: "/items", Routes: []Route{
			Get("", h.Items.List),
			Get("/categories", h.Items.Categories),
			Get("/:id", h.Items.Get),
		}},
		Resource{Prefix: "/admin", Routes: []Route{
			Post("/seed-items", h.Items.Seed),
		}},
		Resource{Prefix: "/stream", Routes: []Route{
			Get("", h.Stream.Stream),
		}},
		Resource{Routes: []Route{
			Get("/health", h.System.Health),
			Get("/system/info", h.System.GetSystemInfo),
		}},
	}
}
