package notification

import "context"

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=notification

type Notifier interface {
	SendPasswordReset(ctx context.Context, message *PasswordResetMessage) error
	Close() error
}
