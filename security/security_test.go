package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("application/json"))
	assert.True(t, ValidateContentType("multipart/form-data"))
	assert.True(t, ValidateContentType("application/x-www-form-urlencoded"))
	assert.False(t, ValidateContentType("text/xml"))
	assert.False(t, ValidateContentType(""))
}
