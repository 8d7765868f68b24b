package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/hospital-service/internal/domain"
)

// memoryAccountRepository keeps accounts in process memory. It enforces the
// same uniqueness rules as the accounts table.
type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	order    []string
	now      func() time.Time
}

// NewMemoryAccountRepository returns an in-memory implementation used when no
// database is configured and in tests.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts: make(map[string]domain.Account),
		now:      time.Now,
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("%w: accounts_pkey", ErrDuplicate)
	}
	if err := r.checkUnique(account); err != nil {
		return err
	}

	now := r.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	r.order = append(r.order, account.ID)
	return nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.checkUnique(account); err != nil {
		return err
	}

	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = r.now().UTC()
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(r.accounts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if account := r.accounts[id]; account.Email == email {
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryAccountRepository) FindByUniqueFields(_ context.Context, email, document, phone string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		account := r.accounts[id]
		if account.Email == email || account.Document == document || account.Phone == phone {
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryAccountRepository) List(_ context.Context, filter AccountFilter) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Account
	for _, id := range r.order {
		account := r.accounts[id]
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		matched = append(matched, account)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// checkUnique must be called with the write lock held.
func (r *memoryAccountRepository) checkUnique(account *domain.Account) error {
	for id, other := range r.accounts {
		if id == account.ID {
			continue
		}
		switch {
		case other.Email == account.Email:
			return fmt.Errorf("%w: accounts_email_key", ErrDuplicate)
		case other.Document == account.Document:
			return fmt.Errorf("%w: accounts_document_key", ErrDuplicate)
		case other.Phone == account.Phone:
			return fmt.Errorf("%w: accounts_phone_key", ErrDuplicate)
		}
	}
	return nil
}
