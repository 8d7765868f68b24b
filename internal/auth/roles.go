package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-service/internal/domain"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

// Authorize checks the caller's role against the roles an operation requires.
// An empty requirement admits any authenticated caller.
func Authorize(claims *Claims, required []domain.Role) error {
	if claims == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if claims.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

// RequireRoles ensures the authenticated caller holds one of the allowed roles.
// It must run after Authenticator.Handle.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	required := append([]domain.Role(nil), allowed...)
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		if err := Authorize(claims, required); err != nil {
			return err
		}
		return c.Next()
	}
}
