package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Verifies(t *testing.T) {
	hash, err := HashPassword("thisisatest")
	require.NoError(t, err)

	assert.NotEqual(t, "thisisatest", string(hash))
	assert.True(t, CheckPassword("thisisatest", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("same", a))
	assert.True(t, CheckPassword("same", b))
}

func TestCheckPassword_BadHash(t *testing.T) {
	assert.False(t, CheckPassword("x", nil))
	assert.False(t, CheckPassword("x", []byte{}))
	assert.False(t, CheckPassword("x", []byte("not-a-bcrypt-hash")))
}
