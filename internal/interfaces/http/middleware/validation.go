package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SetupValidator makes gin's binding validator report JSON (or form) field
// names instead of Go field names.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationDetails flattens binding failures and application validation
// errors into response details. It returns nil for any other error.
func ValidationDetails(err error) []dto.ValidationDetail {
	var appErr *appshared.ValidationError
	if errors.As(err, &appErr) {
		details := make([]dto.ValidationDetail, 0, len(appErr.Fields))
		for _, f := range appErr.Fields {
			details = append(details, dto.ValidationDetail{Field: f.Field, Message: f.Message})
		}
		return details
	}

	var bindErrs validator.ValidationErrors
	if errors.As(err, &bindErrs) {
		details := make([]dto.ValidationDetail, 0, len(bindErrs))
		for _, e := range bindErrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: appshared.ValidationMessage(e),
			})
		}
		return details
	}
	return nil
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		ValidationDetails(err),
	)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}
