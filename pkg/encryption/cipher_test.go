//go:build unit

package encryption

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var TestKey = strings.Repeat("ab", KeyLength)

func TestParseKey(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		key, err := ParseKey(TestKey)

		assert.NoError(t, err)
		assert.Len(t, key, KeyLength)
	})

	t.Run("when key is not hex should return error", func(t *testing.T) {
		_, err := ParseKey("zz")

		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("when key is 128 bits should return error", func(t *testing.T) {
		_, err := ParseKey(strings.Repeat("ab", 16))

		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	key, err := ParseKey(TestKey)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		for _, plaintext := range []string{"", "reset-token", strings.Repeat("x", 1024)} {
			payload, err := Encrypt(plaintext, key)
			require.NoError(t, err)

			iv, err := hex.DecodeString(payload.Iv)
			require.NoError(t, err)
			tag, err := hex.DecodeString(payload.Tag)
			require.NoError(t, err)
			assert.Len(t, iv, IvLength)
			assert.Len(t, tag, TagLength)

			decrypted, err := Decrypt(payload, key)
			assert.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		}
	})

	t.Run("every call should use a fresh iv", func(t *testing.T) {
		first, err := Encrypt("same", key)
		require.NoError(t, err)
		second, err := Encrypt("same", key)
		require.NoError(t, err)

		assert.NotEqual(t, first.Iv, second.Iv)
		assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
	})

	t.Run("when tag is tampered should fail closed", func(t *testing.T) {
		payload, err := Encrypt("secret", key)
		require.NoError(t, err)

		tag, _ := hex.DecodeString(payload.Tag)
		tag[0] ^= 0xff
		payload.Tag = hex.EncodeToString(tag)

		decrypted, err := Decrypt(payload, key)
		assert.ErrorIs(t, err, ErrDecrypt)
		assert.Empty(t, decrypted)
	})

	t.Run("when ciphertext is tampered should fail closed", func(t *testing.T) {
		payload, err := Encrypt("secret", key)
		require.NoError(t, err)

		ciphertext, _ := hex.DecodeString(payload.Ciphertext)
		ciphertext[0] ^= 0x01
		payload.Ciphertext = hex.EncodeToString(ciphertext)

		decrypted, err := Decrypt(payload, key)
		assert.ErrorIs(t, err, ErrDecrypt)
		assert.Empty(t, decrypted)
	})

	t.Run("when key differs should fail closed", func(t *testing.T) {
		payload, err := Encrypt("secret", key)
		require.NoError(t, err)

		otherKey, err := ParseKey(strings.Repeat("cd", KeyLength))
		require.NoError(t, err)

		_, err = Decrypt(payload, otherKey)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("when key length is wrong should return error", func(t *testing.T) {
		_, err := Encrypt("secret", []byte("short"))

		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
