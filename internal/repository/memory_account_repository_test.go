package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hospital-service/internal/domain"
)

func newAccount(id, email, document, phone string, role domain.Role) *domain.Account {
	return &domain.Account{
		ID:           id,
		Name:         "Ana",
		LastName:     "Gómez",
		Email:        email,
		Document:     document,
		Phone:        phone,
		PasswordHash: "$2a$10$hash",
		Role:         role,
	}
}

func TestMemoryRepositoryCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	acc := newAccount("a1", "a@x.com", "D1", "P1", domain.RolePatient)
	require.NoError(t, repo.Create(ctx, acc))
	assert.False(t, acc.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", byEmail.ID)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, keys := range [][3]string{{"a@x.com", "-", "-"}, {"-", "D1", "-"}, {"-", "-", "P1"}} {
		found, err := repo.FindByUniqueFields(ctx, keys[0], keys[1], keys[2])
		require.NoError(t, err)
		assert.Equal(t, "a1", found.ID)
	}
	_, err = repo.FindByUniqueFields(ctx, "b@x.com", "D2", "P2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("a1", "a@x.com", "D1", "P1", domain.RolePatient)))

	assert.ErrorIs(t, repo.Create(ctx, newAccount("a2", "a@x.com", "D2", "P2", domain.RolePatient)), ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, newAccount("a2", "b@x.com", "D1", "P2", domain.RolePatient)), ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, newAccount("a2", "b@x.com", "D2", "P1", domain.RolePatient)), ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, newAccount("a1", "c@x.com", "D3", "P3", domain.RolePatient)), ErrDuplicate)

	require.NoError(t, repo.Create(ctx, newAccount("a2", "b@x.com", "D2", "P2", domain.RolePatient)))
	clash := newAccount("a2", "a@x.com", "D2", "P2", domain.RolePatient)
	assert.ErrorIs(t, repo.Update(ctx, clash), ErrDuplicate)
}

func TestMemoryRepositoryUpdateDeleteList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("a1", "a@x.com", "D1", "P1", domain.RolePatient)))
	require.NoError(t, repo.Create(ctx, newAccount("a2", "b@x.com", "D2", "P2", domain.RoleDoctor)))
	require.NoError(t, repo.Create(ctx, newAccount("a3", "c@x.com", "D3", "P3", domain.RolePatient)))

	acc, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	created := acc.CreatedAt
	acc.Name = "Ana María"
	require.NoError(t, repo.Update(ctx, acc))
	reloaded, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", reloaded.Name)
	assert.Equal(t, created, reloaded.CreatedAt)

	assert.ErrorIs(t, repo.Update(ctx, newAccount("zz", "z@x.com", "DZ", "PZ", domain.RoleAdmin)), ErrNotFound)

	patient := domain.RolePatient
	patients, err := repo.List(ctx, AccountFilter{Role: &patient})
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "a1", patients[0].ID)
	assert.Equal(t, "a3", patients[1].ID)

	page, err := repo.List(ctx, AccountFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a2", page[0].ID)

	empty, err := repo.List(ctx, AccountFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, "a2"))
	assert.ErrorIs(t, repo.Delete(ctx, "a2"), ErrNotFound)
	all, err := repo.List(ctx, AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("a1", "a@x.com", "D1", "P1", domain.RolePatient)))

	acc, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	acc.Role = domain.RoleAdmin

	again, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, again.Role)
}

func TestMemoryRepositoryConcurrentRegistrationsKeepEmailsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acc := newAccount(string(rune('a'+i)), "same@x.com", "D"+string(rune('a'+i)), "P"+string(rune('a'+i)), domain.RolePatient)
			errs[i] = repo.Create(ctx, acc)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDuplicate)
		}
	}
	assert.Equal(t, 1, succeeded)
}
