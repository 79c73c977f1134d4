package guard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"project-api/pkg/cerror"
	"project-api/pkg/jwt_generator"
	"project-api/pkg/logger"
)

const (
	IdentityKey  = "identity"
	bearerPrefix = "Bearer "
)

// RequireAccessToken rejects requests without a valid access token in the
// Authorization header and stores the token identity in the fiber locals.
func RequireAccessToken(jwtGenerator jwt_generator.JwtGenerator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authorization := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authorization, bearerPrefix) {
			return cerror.ErrorInvalidAccessToken.WithFields(
				zap.String("reason", "missing bearer token"),
			)
		}

		rawToken := strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
		claims, err := jwtGenerator.VerifyToken(rawToken, jwt_generator.TokenTypeAccess)
		if err != nil {
			return cerror.ErrorInvalidAccessToken.WithFields(zap.Error(err))
		}

		identity := claims.Identity()
		ctx.Locals(IdentityKey, identity)

		requestLog := logger.FromFiber(ctx).With(zap.String("userId", identity.UserId))
		ctx.Locals(logger.ContextKey, requestLog)
		ctx.SetUserContext(logger.InjectContext(ctx.UserContext(), requestLog))

		return ctx.Next()
	}
}

// RequireRole must run after RequireAccessToken.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity, ok := IdentityFromLocals(ctx)
		if !ok {
			return cerror.ErrorInvalidAccessToken
		}

		for _, role := range roles {
			if identity.Role == role {
				return ctx.Next()
			}
		}

		return cerror.ErrorForbidden.WithFields(
			zap.String("userId", identity.UserId),
			zap.String("role", identity.Role),
		)
	}
}

func IdentityFromLocals(ctx *fiber.Ctx) (*jwt_generator.Identity, bool) {
	identity, ok := ctx.Locals(IdentityKey).(*jwt_generator.Identity)
	return identity, ok && identity != nil
}
