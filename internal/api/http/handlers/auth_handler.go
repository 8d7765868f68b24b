package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-service/internal/api/dto"
	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/service"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	birth, err := req.Validate()
	if err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:      req.Name,
		LastName:  req.LastName,
		Document:  req.Document,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birth,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Message:    "user registered successfully",
		StatusCode: http.StatusCreated,
		User:       dto.AccountSummary{ID: user.ID, Email: user.Email, Role: user.Role},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User: dto.AccountSummary{
			ID:       result.User.ID,
			Email:    result.User.Email,
			Role:     result.User.Role,
			Name:     result.User.Name,
			LastName: result.User.LastName,
		},
	})
}

// Profile handles GET /auth/profile. The identity comes from the token only.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.ProfileResponse{
		Message: "authenticated",
		User:    dto.AccountSummary{ID: claims.AccountID(), Email: claims.Email, Role: claims.Role},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), claims.AccountID(), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
