package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-api/pkg/cerror"
	"project-api/pkg/logger"
	"project-api/pkg/server"
)

type handler struct {
	repository Repository
	guards     []fiber.Handler
	validate   *validator.Validate
}

// NewHandler serves user administration. guards run before every route,
// typically an access token check followed by an admin role check.
func NewHandler(repository Repository, guards ...fiber.Handler) server.Handler {
	return &handler{
		repository: repository,
		guards:     guards,
		validate:   validator.New(),
	}
}

func (h *handler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users", h.guards...)
	users.Patch("/:userId/status", h.UpdateStatus)
}

func (h *handler) UpdateStatus(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	log := logger.FromFiber(ctx).With(
		zap.String("eventName", "updateUserStatus"),
		zap.String("targetUserId", userId),
	)

	var payload UpdateStatusPayload
	err := ctx.BodyParser(&payload)
	if err != nil {
		return cerror.ErrorBadRequest.WithFields(zap.Error(err))
	}

	err = h.validate.Struct(payload)
	if err != nil {
		return cerror.ErrorBadRequest.WithFields(zap.Error(err))
	}

	err = h.repository.UpdateIsActive(ctx.UserContext(), userId, *payload.IsActive)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(&UpdateStatusResponse{
		Id:       userId,
		IsActive: *payload.IsActive,
	})
}
