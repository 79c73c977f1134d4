package notification

import (
	"time"

	"project-api/pkg/encryption"
)

const EventTypePasswordReset = "password.reset.requested"

// PasswordResetMessage carries the raw reset token; it must never be logged.
type PasswordResetMessage struct {
	UserId    string
	Email     string
	Name      string
	Token     string
	ExpiresAt time.Time
}

// PasswordResetEvent is the published form of a PasswordResetMessage with the
// token sealed under the service encryption key.
type PasswordResetEvent struct {
	EventType  string              `json:"eventType"`
	UserId     string              `json:"userId"`
	Email      string              `json:"email"`
	Name       string              `json:"name"`
	Token      *encryption.Payload `json:"token"`
	ExpiresAt  time.Time           `json:"expiresAt"`
	OccurredAt time.Time           `json:"occurredAt"`
}
