package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("update property: %w", Conflict("Property", "p1"))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
	assert.Contains(t, Message(err), "p1")
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindUnexpected, KindOf(err))
	assert.Equal(t, "An unexpected error occurred", Message(err))
	assert.False(t, Is(nil, KindUnexpected))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("bucket unavailable")
	err := UploadFailure("failed to store image", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upload_failure", KindOf(err).String())
	assert.Equal(t, "failed to store image", Message(err))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Property not found with id: 42", NotFound("Property", "42").Error())
}
