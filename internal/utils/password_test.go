package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais-pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "pas-un-hash")
	assert.Error(t, err)
}
