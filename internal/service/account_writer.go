package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/repository"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

// MinPasswordLength is the shortest accepted plaintext secret.
const MinPasswordLength = 6

// accountWriter is the only path by which accounts reach the store. Callers
// may leave a plaintext secret in PasswordHash; it is hashed before the write
// unless it is already a hash, so re-saving an untouched account keeps its hash.
type accountWriter struct {
	repo   repository.AccountRepository
	hasher auth.Hasher
}

func (w accountWriter) create(ctx context.Context, account *domain.Account) error {
	if err := w.ensureSecretHashed(account); err != nil {
		return err
	}
	return w.repo.Create(ctx, account)
}

func (w accountWriter) update(ctx context.Context, account *domain.Account) error {
	if err := w.ensureSecretHashed(account); err != nil {
		return err
	}
	return w.repo.Update(ctx, account)
}

func (w accountWriter) ensureSecretHashed(account *domain.Account) error {
	hashed, err := auth.EnsureHashed(w.hasher, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}
	account.PasswordHash = hashed
	return nil
}

// validateSecret rejects plaintext that would be mistaken for a stored hash.
func validateSecret(plain string) error {
	if len(plain) < MinPasswordLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
			map[string]any{"field": "password"})
	}
	if auth.IsHashed(plain) {
		return apperrors.NewValidationError("password format not allowed", map[string]any{"field": "password"})
	}
	return nil
}
