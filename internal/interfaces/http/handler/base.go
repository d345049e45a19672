package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BaseHandler writes the response envelope. Every handler embeds it.
type BaseHandler struct{}

// customerContext tags the request context, and the logger it carries, with
// the customer email the request acts for
func customerContext(c *gin.Context, email string) context.Context {
	ctx := c.Request.Context()
	if email == "" {
		return ctx
	}
	ctx, _ = logger.WithCustomer(ctx, logger.FromContext(ctx), email)
	c.Request = c.Request.WithContext(ctx)
	return ctx
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Fail answers with an error envelope. The status follows from code.
func (BaseHandler) Fail(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

func (h BaseHandler) InvalidJSON(c *gin.Context) {
	h.Fail(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
}

// ValidationError answers 400 with one detail per invalid field
func (BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError picks the response for err. Domain errors map through their
// code; anything unrecognised is a 500 that hides the cause from the client
// and leaves it on the gin context for the request log.
func (h BaseHandler) HandleError(c *gin.Context, err error) {
	var (
		validationErr *appshared.ValidationError
		domainErr     *shared.DomainError
	)
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		h.ValidationError(c, err)
	case errors.As(err, &domainErr):
		h.Fail(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
	default:
		_ = c.Error(err)
		h.Fail(c, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}
