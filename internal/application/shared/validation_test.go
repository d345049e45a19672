package shared

import (
	"errors"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	ItemID uint `json:"itemId" validate:"gt=0"`
	Qty    int  `json:"qty" validate:"gt=0"`
}

type sampleInput struct {
	Name  string       `json:"customerName" validate:"required"`
	Email string       `json:"email" validate:"required,email"`
	Lines []sampleLine `json:"lines" validate:"min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Name: "A", Email: "a@x.com", Lines: []sampleLine{{1, 1}}})
		assert.NoError(t, err)
	})

	t.Run("reports json field paths", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Email: "nope", Lines: []sampleLine{{0, 2}}})
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))

		fields := map[string]string{}
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
		}
		assert.Equal(t, "This field is required", fields["customerName"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be greater than 0", fields["lines[0].itemId"])
	})

	t.Run("empty lines", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Name: "A", Email: "a@x.com"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "lines", verr.Fields[0].Field)
	})

	t.Run("matches invalid input", func(t *testing.T) {
		err := ValidateStruct(sampleInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.True(t, shared.IsCode(err, "INVALID_INPUT"))
	})
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email", "This field is required")
	assert.Equal(t, "validation failed: email: This field is required", err.Error())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
