package shared

import "errors"

// DomainError is a business rule failure identified by a stable code. The
// HTTP layer maps codes to statuses.
type DomainError struct {
	Code    string
	Message string
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string { return e.Message }

// Is compares codes only, so errors.Is(err, ErrNotFound) holds for
// "Item 7 not found".
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// Sentinels for errors.Is. Their messages are generic; returned errors carry
// a specific one.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

func IsCode(err error, code string) bool {
	return errors.Is(err, &DomainError{Code: code})
}
