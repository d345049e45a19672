package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// DatabaseChecker reports database liveness and pool usage
type DatabaseChecker interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SubscriberCounter reports live stream connections
type SubscriberCounter interface {
	Count() int
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	db          DatabaseChecker
	subscribers SubscriberCounter
	version     string
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabaseChecker, subscribers SubscriberCounter, version string) *SystemHandler {
	return &SystemHandler{
		db:          db,
		subscribers: subscribers,
		version:     version,
		startTime:   time.Now(),
	}
}

// HealthResponse is the health check body
// @name HandlerHealthResponse
type HealthResponse struct {
	Status      string                       `json:"status" example:"ok"`
	Database    string                       `json:"database" example:"ok"`
	Pool        *persistence.ConnectionStats `json:"pool,omitempty"`
	Subscribers int                          `json:"subscribers"`
	Timestamp   string                       `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the database; 503 when it is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} ErrorResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		_ = c.Error(err)
		h.Fail(c, dto.ErrCodeServiceUnavailable, "Database unavailable")
		return
	}

	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	if h.subscribers != nil {
		resp.Subscribers = h.subscribers.Count()
	}
	h.Success(c, resp)
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Storefront API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Storefront API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
