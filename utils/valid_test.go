package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", SanitizeInput("<b>bold</b>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	_, err = SanitizeEmail("")
	assert.Error(t, err)
}

type validationFixture struct {
	Username string `validate:"required,min=3,max=30,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidationErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(validationFixture{Username: "ab", Email: "bad", Password: "short"})
	require.Error(t, err)

	fieldErrors := ValidationErrors(err)
	require.Len(t, fieldErrors, 3)

	byField := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		byField[fe.Field] = fe.Message
	}

	assert.Equal(t, "must be at least 3 characters", byField["username"])
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be at least 8 characters", byField["password"])
}

func TestValidationErrorsRequired(t *testing.T) {
	v := validator.New()

	err := v.Struct(validationFixture{})
	require.Error(t, err)

	fieldErrors := ValidationErrors(err)
	require.Len(t, fieldErrors, 3)
	assert.Equal(t, "username", fieldErrors[0].Field)
	assert.Equal(t, "username is required", fieldErrors[0].Message)
}

func TestValidationErrorsNonValidatorError(t *testing.T) {
	fieldErrors := ValidationErrors(errors.New("boom"))
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "body", fieldErrors[0].Field)
}
