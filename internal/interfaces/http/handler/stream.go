package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/realtime"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultHeartbeatInterval keeps idle streams open through proxies
const DefaultHeartbeatInterval = 25 * time.Second

// StreamHandler serves the server-sent event stream
type StreamHandler struct {
	BaseHandler
	registry  *realtime.Registry
	logger    *zap.Logger
	heartbeat time.Duration
}

// StreamOption is a functional option for configuring the handler
type StreamOption func(*StreamHandler)

// WithHeartbeat sets the heartbeat interval
func WithHeartbeat(interval time.Duration) StreamOption {
	return func(h *StreamHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(registry *realtime.Registry, logger *zap.Logger, opts ...StreamOption) *StreamHandler {
	h := &StreamHandler{
		registry:  registry,
		logger:    logger,
		heartbeat: DefaultHeartbeatInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stream godoc
//
//	@Summary		Subscribe to live notifications
//	@Description	Server-Sent Events. With ?email= the stream carries that customer's notification.new and order.tracking events plus broadcasts; without it, broadcasts only.
//	@Tags			notifications
//	@Produce		text/event-stream
//	@Param			email	query		string	false	"Customer email"
//	@Success		200		{string}	string	"SSE stream"
//	@Failure		503		{object}	ErrorResponse
//	@Router			/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.registry.Register(c.Query("email"))
	if err != nil {
		if errors.Is(err, realtime.ErrTooManyConnections) {
			h.Fail(c, dto.ErrCodeServiceUnavailable,
				"Maximum number of stream connections reached")
			return
		}
		h.HandleError(c, err)
		return
	}
	defer h.registry.Unregister(conn)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	writeEvent(c.Writer, realtime.ConnectedMessage(conn))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("stream closed by client", zap.String("connection_id", conn.ID))
			return
		case <-conn.Done():
			h.logger.Debug("stream closed by server", zap.String("connection_id", conn.ID))
			return
		case now := <-ticker.C:
			writeEvent(c.Writer, realtime.HeartbeatMessage(now))
			c.Writer.Flush()
		case msg := <-conn.Messages():
			writeEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// writeEvent writes one SSE frame
func writeEvent(w io.Writer, msg realtime.Message) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
