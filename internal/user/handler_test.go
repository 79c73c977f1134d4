//go:build unit

package user

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-api/pkg/cerror"
	"project-api/pkg/server"
)

const TestUserId = "6f1c7a54-3f6e-4a59-9d8d-2b7c8e4f0a11"

func newTestApp(h server.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: cerror.Middleware,
	})
	h.RegisterRoutes(app)
	return app
}

func TestNewHandler(t *testing.T) {
	userHandler := NewHandler(nil)

	assert.Implements(t, (*server.Handler)(nil), userHandler)
}

func TestHandler_UpdateStatus(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().
			UpdateIsActive(gomock.Any(), TestUserId, false).
			Return(nil)

		app := newTestApp(NewHandler(mockRepository))

		req := httptest.NewRequest(fiber.MethodPatch, "/users/"+TestUserId+"/status", strings.NewReader(`{"isActive":false}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var response UpdateStatusResponse
		require.NoError(t, json.Unmarshal(body, &response))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, TestUserId, response.Id)
		assert.False(t, response.IsActive)
	})

	t.Run("when isActive is missing should return bad request", func(t *testing.T) {
		app := newTestApp(NewHandler(NewMockRepository(mockController)))

		req := httptest.NewRequest(fiber.MethodPatch, "/users/"+TestUserId+"/status", strings.NewReader(`{}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("when body cant parsing should return bad request", func(t *testing.T) {
		app := newTestApp(NewHandler(NewMockRepository(mockController)))

		req := httptest.NewRequest(fiber.MethodPatch, "/users/"+TestUserId+"/status", strings.NewReader(`"invalid":"body"`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("when user not found should return not found", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().
			UpdateIsActive(gomock.Any(), TestUserId, true).
			Return(cerror.ErrorUserNotFound)

		app := newTestApp(NewHandler(mockRepository))

		req := httptest.NewRequest(fiber.MethodPatch, "/users/"+TestUserId+"/status", strings.NewReader(`{"isActive":true}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("when guard rejects should not reach repository", func(t *testing.T) {
		deny := func(ctx *fiber.Ctx) error {
			return cerror.ErrorForbidden
		}
		app := newTestApp(NewHandler(NewMockRepository(mockController), deny))

		req := httptest.NewRequest(fiber.MethodPatch, "/users/"+TestUserId+"/status", strings.NewReader(`{"isActive":true}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
