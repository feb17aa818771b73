package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/domain"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// RequireCapability ensures the caller's role grants capability.
func RequireCapability(capability domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromContext(c)
		if user == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.Role.Can(capability) {
			return apperrors.NewForbidden("role " + string(user.Role) + " may not " + string(capability))
		}
		return c.Next()
	}
}

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user := UserFromContext(c)
		if user == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[user.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
