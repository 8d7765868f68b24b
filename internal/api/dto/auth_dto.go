package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/hospital-service/internal/domain"
)

const birthDateFormat = "must be YYYY-MM-DD or RFC3339"

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Document  string `json:"document" validate:"required,notblank"`
	Phone     string `json:"phone" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	BirthDate string `json:"birthDate"`
	Role      string `json:"role" validate:"omitempty,oneof=doctor patient admin"`
}

// Validate checks required fields and formats. The parsed birth date is
// returned so handlers do not parse it twice.
func (r *RegisterRequest) Validate() (*time.Time, error) {
	r.Email = normalizeEmail(r.Email)
	problems := fieldProblems(r)
	birth, err := ParseBirthDate(r.BirthDate)
	if err != nil {
		problems["birthDate"] = birthDateFormat
	}
	if err := invalid(problems); err != nil {
		return nil, err
	}
	return birth, nil
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return invalid(fieldProblems(r))
}

// ChangePasswordRequest payload for an authenticated secret change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (r *ChangePasswordRequest) Validate() error {
	return invalid(fieldProblems(r))
}

// AccountSummary is the identity block embedded in auth responses.
type AccountSummary struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name,omitempty"`
	LastName string      `json:"lastName,omitempty"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	User       AccountSummary `json:"user"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	User        AccountSummary `json:"user"`
}

// ProfileResponse is returned by GET /auth/profile.
type ProfileResponse struct {
	Message string         `json:"message"`
	User    AccountSummary `json:"user"`
}

// ParseBirthDate accepts a calendar date or a full RFC3339 timestamp. An
// empty value yields nil.
func ParseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
