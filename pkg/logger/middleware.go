package logger

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	ContextKey                          = "logger"
	ContextLoggerValue       contextKey = "logger"
	RequestIdHeader                     = "X-Request-Id"
	EventFinishedSuccessfully           = "event successfully finished"
)

// Middleware attaches a request scoped logger to both the fiber locals and the
// user context so services can pick it up with FromContext.
func Middleware(log *zap.SugaredLogger) func(ctx *fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		requestId := utils.CopyString(ctx.Get(RequestIdHeader))
		if requestId == "" {
			requestId = uuid.New().String()
		}
		ctx.Set(RequestIdHeader, requestId)

		requestLog := log.With(
			zap.String("requestId", requestId),
			zap.String("method", utils.CopyString(ctx.Method())),
			zap.String("path", utils.CopyString(ctx.Path())),
		)

		ctx.Locals(ContextKey, requestLog)
		ctx.SetUserContext(InjectContext(ctx.UserContext(), requestLog))
		return ctx.Next()
	}
}

func FromContext(ctx context.Context) *zap.SugaredLogger {
	logger, isOk := ctx.Value(ContextLoggerValue).(*zap.SugaredLogger)
	if !isOk {
		l, _ := zap.NewProduction()
		logger = l.Sugar()
	}

	lambdaCtx, isOk := lambdacontext.FromContext(ctx)
	if isOk {
		logger = logger.With(zap.String("awsRequestId", lambdaCtx.AwsRequestID))
	}

	return logger
}

func FromFiber(ctx *fiber.Ctx) *zap.SugaredLogger {
	logger, isOk := ctx.Locals(ContextKey).(*zap.SugaredLogger)
	if isOk {
		return logger
	}

	return FromContext(ctx.UserContext())
}

func InjectContext(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ContextLoggerValue, log)
}
