package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

const claimsKey = "auth_claims"

// Authenticator validates bearer tokens and exposes their claims to handlers.
type Authenticator struct {
	tokens *TokenManager
}

// NewAuthenticator constructs middleware.
func NewAuthenticator(tokens *TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Authenticator) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return apperrors.NewUnauthorized("token expired")
		}
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated caller's claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
