package cerror

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CustomError struct {
	HttpStatusCode int             `json:"httpStatus"`
	LogMessage     string          `json:"-"`
	LogSeverity    zapcore.Level   `json:"-"`
	LogFields      []zapcore.Field `json:"-"`
}

// Response is the only shape of an error that leaves the service.
type Response struct {
	HttpStatusCode int    `json:"httpStatus"`
	Message        string `json:"message"`
}

func NewError(httpStatusCode int, logMessage string, logFields ...zap.Field) *CustomError {
	return &CustomError{
		HttpStatusCode: httpStatusCode,
		LogMessage:     logMessage,
		LogSeverity:    zapcore.ErrorLevel,
		LogFields:      logFields,
	}
}

func (cerr *CustomError) Error() string {
	return cerr.LogMessage
}

// Is matches errors by status and log message so copies made with WithFields
// still compare equal to the declared constants.
func (cerr *CustomError) Is(target error) bool {
	var targetCerr *CustomError
	if !errors.As(target, &targetCerr) {
		return false
	}

	return cerr.HttpStatusCode == targetCerr.HttpStatusCode &&
		cerr.LogMessage == targetCerr.LogMessage
}

func (cerr *CustomError) SetSeverity(severity zapcore.Level) *CustomError {
	cerr.LogSeverity = severity
	return cerr
}

// WithFields returns a copy carrying the given log fields; the receiver is left
// untouched.
func (cerr *CustomError) WithFields(logFields ...zap.Field) *CustomError {
	clone := *cerr
	clone.LogFields = append(append([]zapcore.Field{}, cerr.LogFields...), logFields...)
	return &clone
}

func (cerr *CustomError) Response() Response {
	return Response{
		HttpStatusCode: cerr.HttpStatusCode,
		Message:        PublicMessage(cerr.HttpStatusCode),
	}
}

// PublicMessage is the caller visible text for a status. Internal distinctions
// such as expired versus tampered tokens live only in LogMessage.
func PublicMessage(httpStatusCode int) string {
	switch httpStatusCode {
	case http.StatusBadRequest:
		return "malformed request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "too many requests"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	default:
		return "internal server error"
	}
}
