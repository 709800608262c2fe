package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, CheckPassword("s3cret-password", hash))
	assert.Error(t, CheckPassword("wrong-password", hash))
}

func TestHashPasswordProducesUniqueHashes(t *testing.T) {
	first, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	second, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
