//go:build unit

package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInjectContext(t *testing.T) {
	ctx := context.Background()

	logProd, err := zap.NewProduction()
	require.NoError(t, err)

	log := logProd.Sugar()
	defer log.Sync()

	ctx = InjectContext(ctx, log)

	logFromCtx := ctx.Value(ContextLoggerValue).(*zap.SugaredLogger)
	assert.NotNil(t, logFromCtx)
}

func TestFromContext(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		logProd, err := zap.NewProduction()
		require.NoError(t, err)

		log := logProd.Sugar()
		defer log.Sync()

		ctx := context.Background()
		ctx = InjectContext(ctx, log)

		logFromCtx := FromContext(ctx)

		assert.Equal(t, log, logFromCtx)
	})

	t.Run("when context has no logger should return a new one", func(t *testing.T) {
		logFromCtx := FromContext(context.Background())

		assert.NotNil(t, logFromCtx)
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("should attach request logger and request id", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		log := zap.New(core).Sugar()

		app := fiber.New()
		app.Use(Middleware(log))
		app.Get("/ping", func(ctx *fiber.Ctx) error {
			FromContext(ctx.UserContext()).Info("from user context")
			FromFiber(ctx).Info("from locals")
			return ctx.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
		req.Header.Set(RequestIdHeader, "request-id")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "request-id", resp.Header.Get(RequestIdHeader))
		require.Equal(t, 2, logs.Len())
		for _, entry := range logs.All() {
			assert.Equal(t, "request-id", entry.ContextMap()["requestId"])
			assert.Equal(t, "/ping", entry.ContextMap()["path"])
		}
	})

	t.Run("when request id header is missing should generate one", func(t *testing.T) {
		app := fiber.New()
		app.Use(Middleware(zap.NewNop().Sugar()))
		app.Get("/ping", func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Header.Get(RequestIdHeader))
	})
}
