package cerror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"project-api/pkg/logger"
)

// Middleware is the fiber error handler. It logs the internal reason and
// answers with the public response only.
func Middleware(ctx *fiber.Ctx, err error) error {
	cerr := toCustomError(err)

	log := logger.FromFiber(ctx).Desugar()
	if len(cerr.LogFields) > 0 {
		log = log.With(cerr.LogFields...)
	}
	log.Log(cerr.LogSeverity, cerr.LogMessage)

	return ctx.
		Status(cerr.HttpStatusCode).
		JSON(cerr.Response())
}

func toCustomError(err error) *CustomError {
	var cerr *CustomError
	if errors.As(err, &cerr) {
		return cerr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		severity := zapcore.WarnLevel
		if fiberErr.Code >= fiber.StatusInternalServerError {
			severity = zapcore.ErrorLevel
		}
		return NewError(fiberErr.Code, fiberErr.Message).SetSeverity(severity)
	}

	return NewError(
		fiber.StatusInternalServerError,
		"unhandled error",
		zap.Error(err),
	)
}
