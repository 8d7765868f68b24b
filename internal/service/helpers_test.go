package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/repository"
)

// spyHasher counts calls made through the Hasher interface.
type spyHasher struct {
	auth.Hasher
	mu          sync.Mutex
	hashCalls   int
	verifyCalls int
	verifyErr   error
}

func newSpyHasher() *spyHasher {
	return &spyHasher{Hasher: auth.NewBcryptHasher(bcrypt.MinCost)}
}

func (s *spyHasher) Hash(plain string) (string, error) {
	s.mu.Lock()
	s.hashCalls++
	s.mu.Unlock()
	return s.Hasher.Hash(plain)
}

func (s *spyHasher) Verify(plain, hashed string) (bool, error) {
	s.mu.Lock()
	s.verifyCalls++
	err := s.verifyErr
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	return s.Hasher.Verify(plain, hashed)
}

// spyRepo wraps the in-memory repository and counts writes.
type spyRepo struct {
	repository.AccountRepository
	creates   int
	updates   int
	lookupErr error
}

func newSpyRepo() *spyRepo {
	return &spyRepo{AccountRepository: repository.NewMemoryAccountRepository()}
}

func (r *spyRepo) Create(ctx context.Context, account *domain.Account) error {
	r.creates++
	return r.AccountRepository.Create(ctx, account)
}

func (r *spyRepo) Update(ctx context.Context, account *domain.Account) error {
	r.updates++
	return r.AccountRepository.Update(ctx, account)
}

func (r *spyRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.AccountRepository.GetByEmail(ctx, email)
}

func (r *spyRepo) FindByUniqueFields(ctx context.Context, email, document, phone string) (*domain.Account, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.AccountRepository.FindByUniqueFields(ctx, email, document, phone)
}

// racingRepo hides existing accounts from the pre-check so the store's own
// uniqueness constraint is what rejects the write.
type racingRepo struct {
	repository.AccountRepository
}

func (r racingRepo) FindByUniqueFields(context.Context, string, string, string) (*domain.Account, error) {
	return nil, repository.ErrNotFound
}

var errStoreDown = errors.New("store unavailable")
