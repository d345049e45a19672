package handler

import "github.com/storefront/backend/internal/interfaces/http/dto"

// APIResponse is dto.Response with a typed payload. Handlers reply with
// dto.Response; this type exists for the API docs and for decoding in tests.
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}
