package auth

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-api/pkg/cerror"
	"project-api/pkg/guard"
	"project-api/pkg/logger"
	"project-api/pkg/server"
)

type handler struct {
	authService   Service
	validate      *validator.Validate
	requireAccess fiber.Handler
	throttle      []fiber.Handler
}

// NewHandler wires the auth routes. requireAccess guards the routes acting on
// the caller's own account; throttle runs in front of the public ones.
func NewHandler(authService Service, requireAccess fiber.Handler, throttle ...fiber.Handler) server.Handler {
	if requireAccess == nil {
		requireAccess = func(ctx *fiber.Ctx) error {
			return cerror.ErrorInvalidAccessToken
		}
	}

	return &handler{
		authService:   authService,
		validate:      validator.New(),
		requireAccess: requireAccess,
		throttle:      throttle,
	}
}

func (h *handler) RegisterRoutes(router fiber.Router) {
	auth := router.Group("/auth")

	auth.Post("/register", h.public(h.Register)...)
	auth.Post("/login", h.public(h.Login)...)
	auth.Post("/refresh", h.public(h.Refresh)...)
	auth.Post("/forgot-password", h.public(h.ForgotPassword)...)
	auth.Post("/reset-password", h.public(h.ResetPassword)...)

	auth.Post("/logout", h.requireAccess, h.Logout)
	auth.Get("/profile", h.requireAccess, h.GetProfile)
	auth.Put("/change-password", h.requireAccess, h.ChangePassword)
}

func (h *handler) Register(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "register"))

	var payload RegisterPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	response, err := h.authService.Register(ctx.UserContext(), &payload)
	if err != nil {
		return err
	}

	log.With(zap.String("userId", response.User.Id)).Info(logger.EventFinishedSuccessfully)
	return ctx.
		Status(fiber.StatusCreated).
		JSON(response)
}

func (h *handler) Login(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "login"))

	var payload LoginPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	response, err := h.authService.Login(ctx.UserContext(), &payload)
	if err != nil {
		return err
	}

	log.With(zap.String("userId", response.User.Id)).Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(response)
}

func (h *handler) Refresh(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "refresh"))

	var payload RefreshPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(ctx.UserContext(), payload.RefreshToken)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(tokens)
}

func (h *handler) Logout(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "logout"))

	identity, ok := guard.IdentityFromLocals(ctx)
	if !ok {
		return cerror.ErrorInvalidAccessToken
	}

	response, err := h.authService.Logout(ctx.UserContext(), identity.UserId)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(response)
}

func (h *handler) GetProfile(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "getProfile"))

	identity, ok := guard.IdentityFromLocals(ctx)
	if !ok {
		return cerror.ErrorInvalidAccessToken
	}

	profile, err := h.authService.GetProfile(ctx.UserContext(), identity.UserId)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(profile)
}

func (h *handler) ForgotPassword(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "forgotPassword"))

	var payload ForgotPasswordPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	response, err := h.authService.ForgotPassword(ctx.UserContext(), payload.Email)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(response)
}

func (h *handler) ResetPassword(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "resetPassword"))

	var payload ResetPasswordPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	response, err := h.authService.ResetPassword(ctx.UserContext(), &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(response)
}

func (h *handler) ChangePassword(ctx *fiber.Ctx) error {
	log := logger.FromFiber(ctx).With(zap.String("eventName", "changePassword"))

	identity, ok := guard.IdentityFromLocals(ctx)
	if !ok {
		return cerror.ErrorInvalidAccessToken
	}

	var payload ChangePasswordPayload
	if err := h.parse(ctx, &payload); err != nil {
		return err
	}

	response, err := h.authService.ChangePassword(ctx.UserContext(), identity.UserId, &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return ctx.JSON(response)
}

// parse binds the JSON body and validates it. Field values are never logged
// since most payloads carry credentials.
func (h *handler) parse(ctx *fiber.Ctx, payload interface{}) error {
	err := ctx.BodyParser(payload)
	if err != nil {
		return cerror.ErrorBadRequest.WithFields(zap.Error(err))
	}

	err = h.validate.Struct(payload)
	if err != nil {
		var fields []string
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				fields = append(fields, fieldError.Field()+":"+fieldError.Tag())
			}
		}
		return cerror.ErrorBadRequest.WithFields(zap.Strings("invalidFields", fields))
	}

	return nil
}

func (h *handler) public(endpoint fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, h.throttle...), endpoint)
}
