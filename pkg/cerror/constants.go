package cerror

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zapcore"
)

// Declared errors are shared; attach request specific fields with WithFields
// instead of mutating them.
var (
	ErrorBadRequest = &CustomError{
		HttpStatusCode: fiber.StatusBadRequest,
		LogMessage:     "malformed request body or query parameter",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorUserAlreadyExists = &CustomError{
		HttpStatusCode: fiber.StatusConflict,
		LogMessage:     "user already exists",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorInvalidCredentials = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "invalid credentials",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorAccountDeactivated = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "account is deactivated",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorInvalidRefreshToken = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "invalid refresh token",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorInvalidOrExpiredResetToken = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "invalid or expired reset token",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorResetTokenExpired = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "reset token has expired",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorInvalidResetToken = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "invalid reset token",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorCurrentPasswordIncorrect = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "current password is incorrect",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorInvalidAccessToken = &CustomError{
		HttpStatusCode: fiber.StatusUnauthorized,
		LogMessage:     "missing or invalid access token",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorForbidden = &CustomError{
		HttpStatusCode: fiber.StatusForbidden,
		LogMessage:     "access denied, insufficient role",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorUserNotFound = &CustomError{
		HttpStatusCode: fiber.StatusNotFound,
		LogMessage:     "user not found",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorTooManyRequests = &CustomError{
		HttpStatusCode: fiber.StatusTooManyRequests,
		LogMessage:     "rate limit exceeded",
		LogSeverity:    zapcore.WarnLevel,
	}

	ErrorHashPassword = &CustomError{
		HttpStatusCode: fiber.StatusInternalServerError,
		LogMessage:     "error occurred while generate hash from password",
		LogSeverity:    zapcore.ErrorLevel,
	}

	ErrorComparePassword = &CustomError{
		HttpStatusCode: fiber.StatusInternalServerError,
		LogMessage:     "error occurred while compare passwords",
		LogSeverity:    zapcore.ErrorLevel,
	}

	ErrorGenerateTokens = &CustomError{
		HttpStatusCode: fiber.StatusInternalServerError,
		LogMessage:     "error occurred while generate access and refresh tokens",
		LogSeverity:    zapcore.ErrorLevel,
	}

	ErrorGenerateResetToken = &CustomError{
		HttpStatusCode: fiber.StatusInternalServerError,
		LogMessage:     "error occurred while generate password reset token",
		LogSeverity:    zapcore.ErrorLevel,
	}

	ErrorStoreUnavailable = &CustomError{
		HttpStatusCode: fiber.StatusServiceUnavailable,
		LogMessage:     "credential store is unavailable",
		LogSeverity:    zapcore.ErrorLevel,
	}
)
