package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	secrets := []string{"secret123", "P@ssw0rd!#$", "ñandú-contraseña", strings.Repeat("x", 60)}
	hashes := make([]string, len(secrets))
	for i, s := range secrets {
		hashed, err := h.Hash(s)
		require.NoError(t, err)
		assert.NotEqual(t, s, hashed)
		assert.True(t, IsHashed(hashed))
		hashes[i] = hashed
	}

	for i, s := range secrets {
		for j, hashed := range hashes {
			ok, err := h.Verify(s, hashed)
			require.NoError(t, err)
			assert.Equal(t, i == j, ok, "secret %d vs hash %d", i, j)
		}
	}
}

func TestBcryptHasherSalts(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasherCost(t *testing.T) {
	hashed, err := NewBcryptHasher(0).Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestBcryptHasherVerifyMalformedHash(t *testing.T) {
	ok, err := NewBcryptHasher(bcrypt.MinCost).Verify("secret123", "not-a-hash")

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestBcryptHasherRejectsEmpty(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIsHashed(t *testing.T) {
	assert.True(t, IsHashed("$2a$10$abcdefghijklmnopqrstuv"))
	assert.True(t, IsHashed("$2b$10$abcdefghijklmnopqrstuv"))
	assert.True(t, IsHashed("$2y$10$abcdefghijklmnopqrstuv"))
	assert.False(t, IsHashed("secret123"))
	assert.False(t, IsHashed("$1$md5"))
	assert.False(t, IsHashed(""))
}

type countingHasher struct {
	*BcryptHasher
	calls int
}

func (c *countingHasher) Hash(plain string) (string, error) {
	c.calls++
	return c.BcryptHasher.Hash(plain)
}

func TestEnsureHashedSkipsExistingHash(t *testing.T) {
	h := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}

	hashed, err := EnsureHashed(h, "secret123")
	require.NoError(t, err)
	assert.Equal(t, 1, h.calls)

	again, err := EnsureHashed(h, hashed)
	require.NoError(t, err)
	assert.Equal(t, hashed, again)
	assert.Equal(t, 1, h.calls)

	ok, err := h.Verify("secret123", again)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = EnsureHashed(h, "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
