package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Item 7 not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInsufficientStock))

	wrapped := fmt.Errorf("checkout: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, IsCode(wrapped, "NOT_FOUND"))
	assert.False(t, IsCode(wrapped, "INVALID_INPUT"))
}

func TestDomainError_MessageIsSpecific(t *testing.T) {
	err := NewDomainError("INVALID_STATE", "Order 4 is already delivered")

	assert.Equal(t, "Order 4 is already delivered", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, errors.Is(errors.New("INVALID_STATE"), ErrInvalidState))
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 10, Filter{Page: 2, PageSize: 10}.Offset())
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 10}.Offset())
	assert.Empty(t, DefaultFilter().Filters)
}
