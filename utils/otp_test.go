package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetCode(t *testing.T) {
	code, err := GenerateResetCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestValidateResetAttemptsWithoutRedis(t *testing.T) {
	assert.NoError(t, ValidateResetAttempts("alice@example.com", nil))
}
