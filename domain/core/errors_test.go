package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionErrorUnwrapsToSentinel(t *testing.T) {
	err := error(&ConversionError{Column: "age", Row: 3, Value: "abc", Target: "Integer"})
	wrapped := fmt.Errorf("convert: %w", err)

	assert.True(t, IsConversionError(wrapped))
	assert.False(t, IsUnsupportedTypeError(wrapped))

	var convErr *ConversionError
	if assert.True(t, errors.As(wrapped, &convErr)) {
		assert.Equal(t, 3, convErr.Row)
		assert.Contains(t, convErr.Error(), `"abc"`)
	}
}

func TestUnsupportedTypeError(t *testing.T) {
	err := &UnsupportedTypeError{Column: "city", Type: "String", Operation: "outlier detection"}
	assert.True(t, IsUnsupportedTypeError(err))
	assert.Equal(t, `outlier detection is not supported for column "city" of type String`, err.Error())
}

func TestErrorConstructors(t *testing.T) {
	assert.True(t, IsNotFoundError(NewColumnNotFoundError("x")))
	assert.True(t, IsInputError(NewUnknownMethodError("strategy", "foo")))
	assert.True(t, IsInputError(NewInsufficientDataError("regression", 2, 3)))
	assert.False(t, IsInputError(ErrConversion))
}
