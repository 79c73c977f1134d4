//go:build unit

package cerror

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"project-api/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
		expectedLog    string
		expectedLevel  zapcore.Level
	}{
		{
			name:           "custom error should log internal message and return public one",
			err:            ErrorResetTokenExpired.WithFields(zap.String("userId", "id")),
			expectedStatus: fiber.StatusUnauthorized,
			expectedBody:   `{"httpStatus":401,"message":"unauthorized"}`,
			expectedLog:    "reset token has expired",
			expectedLevel:  zapcore.WarnLevel,
		},
		{
			name:           "fiber error should keep its status",
			err:            fiber.ErrNotFound,
			expectedStatus: fiber.StatusNotFound,
			expectedBody:   `{"httpStatus":404,"message":"not found"}`,
			expectedLog:    "Cannot GET",
			expectedLevel:  zapcore.WarnLevel,
		},
		{
			name:           "unknown error should become internal server error",
			err:            errors.New("something went wrong"),
			expectedStatus: fiber.StatusInternalServerError,
			expectedBody:   `{"httpStatus":500,"message":"internal server error"}`,
			expectedLog:    "unhandled error",
			expectedLevel:  zapcore.ErrorLevel,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)

			app := fiber.New(fiber.Config{
				ErrorHandler: Middleware,
			})
			app.Use(logger.Middleware(zap.New(core).Sugar()))
			app.Get("/", func(ctx *fiber.Ctx) error {
				if testCase.err == fiber.ErrNotFound {
					return fiber.NewError(fiber.StatusNotFound, "Cannot GET")
				}
				return testCase.err
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, testCase.expectedStatus, resp.StatusCode)
			assert.JSONEq(t, testCase.expectedBody, string(body))
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, testCase.expectedLog, logs.All()[0].Message)
			assert.Equal(t, testCase.expectedLevel, logs.All()[0].Level)
		})
	}
}
