package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"project-api/pkg/config"
	"project-api/pkg/encryption"
)

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

type kafkaNotifier struct {
	writer        messageWriter
	encryptionKey []byte
}

func NewKafkaNotifier(kafkaConfig config.KafkaConfig, encryptionKey []byte) (Notifier, error) {
	if len(kafkaConfig.Brokers) == 0 {
		return nil, errors.New("kafka brokers are not defined")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.Brokers...),
		Topic:                  kafkaConfig.PasswordResetTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}

	return newKafkaNotifier(writer, encryptionKey)
}

func newKafkaNotifier(writer messageWriter, encryptionKey []byte) (Notifier, error) {
	if len(encryptionKey) != encryption.KeyLength {
		return nil, encryption.ErrInvalidKey
	}

	return &kafkaNotifier{
		writer:        writer,
		encryptionKey: encryptionKey,
	}, nil
}

func (n *kafkaNotifier) SendPasswordReset(ctx context.Context, message *PasswordResetMessage) error {
	sealedToken, err := encryption.Encrypt(message.Token, n.encryptionKey)
	if err != nil {
		return fmt.Errorf("kafka: seal reset token: %w", err)
	}

	value, err := json.Marshal(&PasswordResetEvent{
		EventType:  EventTypePasswordReset,
		UserId:     message.UserId,
		Email:      message.Email,
		Name:       message.Name,
		Token:      sealedToken,
		ExpiresAt:  message.ExpiresAt.UTC(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka: marshal reset event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.UserId),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("kafka: write reset event: %w", err)
	}

	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
