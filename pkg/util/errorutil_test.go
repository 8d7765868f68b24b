package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("login: %w", NewUnauthorized("invalid credentials")), CodeUnauthorized, http.StatusUnauthorized},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "invalid payload"), CodeValidation, http.StatusBadRequest},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"pgx no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"unknown error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ToDomainError(NewInternalError(cause))

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(fmt.Errorf("wrap: %w", NewConflict("dup", nil)), CodeConflict))
	assert.False(t, HasCode(NewConflict("dup", nil), CodeUnauthorized))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}
