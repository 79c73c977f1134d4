package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	KeyLength = 32
	IvLength  = 16
	TagLength = 16
)

var (
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")
	ErrDecrypt    = errors.New("failed to decrypt data")
)

// Payload is AES-256-GCM output with every part hex encoded.
type Payload struct {
	Ciphertext string `json:"encrypted"`
	Iv         string `json:"iv"`
	Tag        string `json:"tag"`
}

// ParseKey decodes a hex encoded 256 bit key.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	if len(key) != KeyLength {
		return nil, ErrInvalidKey
	}

	return key, nil
}

func Encrypt(plaintext string, key []byte) (*Payload, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IvLength)
	if _, err = rand.Read(iv); err != nil {
		return nil, fmt.Errorf("read random iv: %w", err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-TagLength], sealed[len(sealed)-TagLength:]

	return &Payload{
		Ciphertext: hex.EncodeToString(ciphertext),
		Iv:         hex.EncodeToString(iv),
		Tag:        hex.EncodeToString(tag),
	}, nil
}

// Decrypt fails closed: nothing is returned unless the tag verifies.
func Decrypt(payload *Payload, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	ciphertext, err := hex.DecodeString(payload.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	iv, err := hex.DecodeString(payload.Iv)
	if err != nil || len(iv) != IvLength {
		return "", fmt.Errorf("%w: malformed iv", ErrDecrypt)
	}

	tag, err := hex.DecodeString(payload.Tag)
	if err != nil || len(tag) != TagLength {
		return "", fmt.Errorf("%w: malformed tag", ErrDecrypt)
	}

	plaintext, err := aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return cipher.NewGCMWithNonceSize(block, IvLength)
}
