package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/realtime"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// NotificationService reads and acknowledges notifications
type NotificationService interface {
	ListForCustomer(ctx context.Context, email string) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id uint, read bool) (*notification.Notification, error)
}

// MarkReadRequest is the acknowledge body. A missing read flag means true.
type MarkReadRequest struct {
	Read *bool `json:"read"`
}

// NotificationHandler serves the notification inbox
type NotificationHandler struct {
	BaseHandler
	service NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @ID           listNotifications
// @Summary      List a customer's notifications
// @Description  Returns at most 100 notifications targeted at the email, newest first
// @Tags         notifications
// @Produce      json
// @Param        email query string true "Customer email"
// @Success      200 {object} APIResponse[[]realtime.NotificationPayload]
// @Failure      400 {object} ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	email := c.Query("email")
	list, err := h.service.ListForCustomer(customerContext(c, email), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]realtime.NotificationPayload, 0, len(list))
	for i := range list {
		out = append(out, realtime.NewNotificationPayload(&list[i]))
	}
	h.Success(c, out)
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Set a notification's read flag
// @Description  Idempotent; the body may be omitted to mark as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id path int true "Notification ID"
// @Param        request body MarkReadRequest false "Read flag"
// @Success      200 {object} APIResponse[realtime.NotificationPayload]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.Fail(c, dto.ErrCodeBadRequest, "Invalid notification ID")
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.InvalidJSON(c)
		return
	}
	read := req.Read == nil || *req.Read

	n, err := h.service.MarkRead(c.Request.Context(), id, read)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtime.NewNotificationPayload(n))
}
