package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := Wrap(cause, CodeInternal, "failed to register ong")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to register ong")
	assert.Contains(t, err.Error(), "driver: bad connection")
}

func TestHasCode(t *testing.T) {
	err := New(CodeValidation, "cnpj must contain 14 digits")

	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))

	// Code survives further wrapping with fmt.
	wrapped := fmt.Errorf("register: %w", err)
	assert.True(t, HasCode(wrapped, CodeValidation))
}

func TestGetCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeConflict, GetCode(NewConflict("email")))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}

func TestConflictFields(t *testing.T) {
	err := NewConflict("email", "cnpj")
	assert.Equal(t, []string{"email", "cnpj"}, ConflictFields(err))
	assert.Contains(t, err.Error(), "email, cnpj")

	assert.Nil(t, ConflictFields(New(CodeValidation, "nope")))
	assert.Nil(t, ConflictFields(errors.New("plain")))
}
