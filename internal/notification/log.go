package notification

import (
	"context"

	"go.uber.org/zap"

	"project-api/pkg/logger"
)

type logNotifier struct{}

// NewLogNotifier only records that a reset was requested. The token is left
// out of the log line.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendPasswordReset(ctx context.Context, message *PasswordResetMessage) error {
	logger.FromContext(ctx).
		With(
			zap.String("eventType", EventTypePasswordReset),
			zap.String("userId", message.UserId),
			zap.Time("expiresAt", message.ExpiresAt),
		).
		Info("password reset requested, no broker configured for delivery")

	return nil
}

func (n *logNotifier) Close() error {
	return nil
}
