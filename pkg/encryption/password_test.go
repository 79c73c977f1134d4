//go:build unit

package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const TestPassword = "Pw1!secret"

func TestNewPasswordHasher(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		hasher, err := NewPasswordHasher(DefaultBcryptCost)

		assert.NoError(t, err)
		assert.Implements(t, (*PasswordHasher)(nil), hasher)
	})

	t.Run("when cost is out of range should return error", func(t *testing.T) {
		hasher, err := NewPasswordHasher(bcrypt.MaxCost + 1)

		assert.Error(t, err)
		assert.Nil(t, hasher)
	})
}

func TestPasswordHasher_Hash(t *testing.T) {
	t.Run("hash should carry its own cost", func(t *testing.T) {
		hasher, err := NewPasswordHasher(DefaultBcryptCost)
		require.NoError(t, err)

		hash, err := hasher.Hash(TestPassword)
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		assert.NoError(t, err)
		assert.Equal(t, DefaultBcryptCost, cost)
		assert.NotEqual(t, TestPassword, hash)
	})

	t.Run("same password should hash to different values", func(t *testing.T) {
		hasher, err := NewPasswordHasher(bcrypt.MinCost)
		require.NoError(t, err)

		first, err := hasher.Hash(TestPassword)
		require.NoError(t, err)
		second, err := hasher.Hash(TestPassword)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	passwords := []string{"", "a", TestPassword, "ünïcödé-パスワード", "with spaces and\ttabs"}
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		require.NoError(t, err)

		ok, err := hasher.Verify(password, hash)
		assert.NoError(t, err)
		assert.True(t, ok, password)

		otherHash, err := hasher.Hash(password + "x")
		require.NoError(t, err)

		ok, err = hasher.Verify(password, otherHash)
		assert.NoError(t, err)
		assert.False(t, ok, password)
	}

	t.Run("when hash is malformed should return hashing error", func(t *testing.T) {
		ok, err := hasher.Verify(TestPassword, "not-a-bcrypt-hash")

		assert.ErrorIs(t, err, ErrHashing)
		assert.False(t, ok)
	})
}
