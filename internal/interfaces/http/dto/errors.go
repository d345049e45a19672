package dto

import "net/http"

// API error codes, ERR_<CATEGORY>_<DESCRIPTION>.
const (
	ErrCodeUnknown            = "ERR_UNKNOWN"
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"

	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists answers a replayed idempotency key.
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// GetHTTPStatus returns the status an API error code is served with.
// Unrecognised codes are server errors.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeInsufficientStock:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// domainCodes translates domain error codes to their API form.
var domainCodes = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"TRACKING_COMPLETE":       ErrCodeInvalidState,
	"UNKNOWN_TRACKING_STATUS": ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
}

// NormalizeErrorCode maps a domain error code to the API code. Anything it
// does not recognise is returned unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := domainCodes[code]; ok {
		return api
	}
	return code
}
