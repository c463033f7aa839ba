package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, plaintext := range []string{"secret123", "", "pässwörd", "a much longer passphrase with spaces"} {
		hash, err := h.Hash(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, hash)

		ok, err := h.Verify(plaintext, hash)
		require.NoError(t, err)
		assert.True(t, ok, "plaintext %q should verify", plaintext)

		ok, err = h.Verify(plaintext+"x", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHasherSaltsEachHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasherMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	ok, err := h.Verify("secret123", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHasherRejectsOverlongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash(string(make([]byte, 73)))
	assert.Error(t, err)
}

func TestNewHasherCostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())
}
