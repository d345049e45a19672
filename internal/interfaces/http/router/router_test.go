package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(Resource{Prefix: "/test", Routes: []Route{
		Get("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }),
	}}).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestWithMiddleware_ScopedToAPIGroup(t *testing.T) {
	engine := gin.New()
	engine.GET("/outside", func(c *gin.Context) { c.String(http.StatusOK, "outside") })

	tag := func(c *gin.Context) {
		c.Header("X-Api", "1")
		c.Next()
	}
	NewRouter(engine, WithMiddleware(tag)).Register(Resource{Prefix: "/test", Routes: []Route{
		Get("", func(c *gin.Context) { c.String(http.StatusOK, "inside") }),
	}}).Setup()

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/v1/test").Header().Get("X-Api"))
	assert.Empty(t, serve(engine, http.MethodGet, "/outside").Header().Get("X-Api"))
}

func TestResource(t *testing.T) {
	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		Resource{Prefix: "/test", Routes: []Route{
			Get("/a", func(c *gin.Context) { c.Status(http.StatusOK) }),
			Post("/b", func(c *gin.Context) { c.Status(http.StatusCreated) }),
			Patch("/c/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) }),
		}}.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/test/a").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/test/b").Code)
		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodPatch, "/api/v1/test/c/7").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/test/b").Code)
	})

	t.Run("applies resource middleware", func(t *testing.T) {
		engine := gin.New()
		mark := func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		}
		Resource{Prefix: "/test", Middleware: []gin.HandlerFunc{mark}, Routes: []Route{
			Get("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") }),
		}}.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("empty prefix mounts at the group root", func(t *testing.T) {
		engine := gin.New()
		Resource{Routes: []Route{
			Get("/health", func(c *gin.Context) { c.String(http.StatusOK, "up") }),
		}}.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "up", serve(engine, http.MethodGet, "/api/v1/health").Body.String())
	})
}

func TestStorefrontResources_RouteTable(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(StorefrontResources(Handlers{
		Orders:        handler.NewOrderHandler(nil, nil),
		Notifications: handler.NewNotificationHandler(nil),
		Items:         handler.NewItemHandler(nil),
		Stream:        handler.NewStreamHandler(nil, zap.NewNop()),
		System:        handler.NewSystemHandler(nil, nil, "test"),
	})...).Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/orders",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id/tracking",
		"GET /api/v1/notifications",
		"PATCH /api/v1/notifications/:id/read",
		"GET /api/v1/items",
		"GET /api/v1/items/categories",
		"GET /api/v1/items/:id",
		"POST /api/v1/admin/seed-items",
		"GET /api/v1/stream",
		"GET /api/v1/health",
		"GET /api/v1/system/info",
	}
	require.Len(t, registered, len(expected))
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestStorefrontResources_CheckoutLimitGuardsPlaceOrderOnly(t *testing.T) {
	hits := 0
	engine := gin.New()
	NewRouter(engine).Register(StorefrontResources(Handlers{
		Orders:        handler.NewOrderHandler(nil, nil),
		Notifications: handler.NewNotificationHandler(nil),
		Items:         handler.NewItemHandler(nil),
		Stream:        handler.NewStreamHandler(nil, zap.NewNop()),
		System:        handler.NewSystemHandler(nil, nil, "test"),
		CheckoutLimit: func(c *gin.Context) {
			hits++
			c.AbortWithStatus(http.StatusTooManyRequests)
		},
	})...).Setup()

	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/orders").Code)
	assert.Equal(t, 1, hits)

	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPatch, "/api/v1/notifications/abc/read").Code)
	assert.Equal(t, 1, hits, "other routes skip the checkout limit")
}
