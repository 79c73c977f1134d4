//go:build unit

package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-api/pkg/config"
	"project-api/pkg/encryption"
)

const TestEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, messages ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, messages...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testMessage() *PasswordResetMessage {
	return &PasswordResetMessage{
		UserId:    "6f1c7a54-3f6e-4a59-9d8d-2b7c8e4f0a11",
		Email:     "test@test.com",
		Name:      "test",
		Token:     strings.Repeat("ab", 32),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestNewKafkaNotifier(t *testing.T) {
	key, err := encryption.ParseKey(TestEncryptionKey)
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		notifier, err := NewKafkaNotifier(config.KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			PasswordResetTopic: config.DefaultKafkaPasswordResetTopic,
		}, key)

		assert.NoError(t, err)
		assert.Implements(t, (*Notifier)(nil), notifier)
	})

	t.Run("when brokers are empty should return error", func(t *testing.T) {
		notifier, err := NewKafkaNotifier(config.KafkaConfig{}, key)

		assert.Error(t, err)
		assert.Nil(t, notifier)
	})

	t.Run("when encryption key is missing should return error", func(t *testing.T) {
		notifier, err := NewKafkaNotifier(config.KafkaConfig{
			Brokers: []string{"localhost:9092"},
		}, nil)

		assert.ErrorIs(t, err, encryption.ErrInvalidKey)
		assert.Nil(t, notifier)
	})
}

func TestKafkaNotifier_SendPasswordReset(t *testing.T) {
	key, err := encryption.ParseKey(TestEncryptionKey)
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		writer := &fakeWriter{}
		notifier, err := newKafkaNotifier(writer, key)
		require.NoError(t, err)
		message := testMessage()

		err = notifier.SendPasswordReset(context.Background(), message)
		require.NoError(t, err)
		require.Len(t, writer.messages, 1)

		published := writer.messages[0]
		assert.Equal(t, message.UserId, string(published.Key))
		assert.NotContains(t, string(published.Value), message.Token)

		var event PasswordResetEvent
		require.NoError(t, json.Unmarshal(published.Value, &event))
		assert.Equal(t, EventTypePasswordReset, event.EventType)
		assert.Equal(t, message.Email, event.Email)

		token, err := encryption.Decrypt(event.Token, key)
		require.NoError(t, err)
		assert.Equal(t, message.Token, token)
	})

	t.Run("when writer fails should return error", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("broker unavailable")}
		notifier, err := newKafkaNotifier(writer, key)
		require.NoError(t, err)

		err = notifier.SendPasswordReset(context.Background(), testMessage())

		assert.Error(t, err)
	})

	t.Run("Close closes the writer", func(t *testing.T) {
		writer := &fakeWriter{}
		notifier, err := newKafkaNotifier(writer, key)
		require.NoError(t, err)

		assert.NoError(t, notifier.Close())
		assert.True(t, writer.closed)
	})
}
