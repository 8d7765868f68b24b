package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/cache"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/events"
	"github.com/spec-kit/hospital-service/internal/repository"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

const msgPersonExists = "person already exists"

// CreatePersonInput carries data for an administrator-created account.
type CreatePersonInput struct {
	Name      string
	LastName  string
	Document  string
	Phone     string
	Email     string
	Password  string
	BirthDate *time.Time
	Role      domain.Role
}

// UpdatePersonInput carries a partial update; nil fields are left untouched.
type UpdatePersonInput struct {
	Name      *string
	LastName  *string
	Document  *string
	Phone     *string
	Email     *string
	Password  *string
	BirthDate *time.Time
	Role      *domain.Role
}

// PersonListFilters define listing parameters.
type PersonListFilters struct {
	Limit  int
	Offset int
}

// PersonService manages accounts on behalf of administrators.
type PersonService struct {
	accounts repository.AccountRepository
	writer   accountWriter
	cache    *cache.AccountCache
	events   events.Dispatcher
	logger   *zap.Logger
}

// PersonDependencies encapsulates collaborators of the person service.
type PersonDependencies struct {
	AccountRepo repository.AccountRepository
	Hasher      auth.Hasher
	Cache       *cache.AccountCache
	Events      events.Dispatcher
	Logger      *zap.Logger
}

// NewPersonService constructs the service.
func NewPersonService(deps PersonDependencies) *PersonService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{
		accounts: deps.AccountRepo,
		writer:   accountWriter{repo: deps.AccountRepo, hasher: deps.Hasher},
		cache:    deps.Cache,
		events:   deps.Events,
		logger:   logger,
	}
}

// Create adds a new account with an explicit role.
func (s *PersonService) Create(ctx context.Context, actorID string, in CreatePersonInput) (*domain.PublicAccount, error) {
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(in.Role)})
	}
	if err := validateSecret(in.Password); err != nil {
		return nil, err
	}

	if existing, err := s.accounts.FindByUniqueFields(ctx, in.Email, in.Document, in.Phone); err == nil && existing != nil {
		return nil, apperrors.NewConflict(msgPersonExists, map[string]any{"id": existing.ID})
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         in.Name,
		LastName:     in.LastName,
		Document:     in.Document,
		Phone:        in.Phone,
		Email:        in.Email,
		BirthDate:    in.BirthDate,
		PasswordHash: in.Password,
		Role:         in.Role,
	}
	if err := s.writer.create(ctx, account); err != nil {
		return nil, mapWriteError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventAccountRegistered, account.ID, &actorID, events.AccountRegisteredPayload{
		Email: account.Email,
		Name:  account.Name,
		Role:  account.Role,
	}))
	return account.Public(), nil
}

// List returns accounts ordered by creation.
func (s *PersonService) List(ctx context.Context, filters PersonListFilters) ([]domain.PublicAccount, error) {
	return s.list(ctx, repository.AccountFilter{Limit: filters.Limit, Offset: filters.Offset})
}

// ListByRole returns accounts holding role.
func (s *PersonService) ListByRole(ctx context.Context, role domain.Role, filters PersonListFilters) ([]domain.PublicAccount, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	return s.list(ctx, repository.AccountFilter{Role: &role, Limit: filters.Limit, Offset: filters.Offset})
}

func (s *PersonService) list(ctx context.Context, filter repository.AccountFilter) ([]domain.PublicAccount, error) {
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]domain.PublicAccount, 0, len(accounts))
	for i := range accounts {
		out = append(out, *accounts[i].Public())
	}
	return out, nil
}

// Get fetches one account, serving from cache when possible.
func (s *PersonService) Get(ctx context.Context, id string) (*domain.PublicAccount, error) {
	cached, hit, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("account cache read failed", zap.String("account_id", id), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("person", map[string]any{"id": id})
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	public := account.Public()
	if err := s.cache.Set(ctx, public); err != nil {
		s.logger.Warn("account cache write failed", zap.String("account_id", id), zap.Error(err))
	}
	return public, nil
}

// Update applies a partial update. The stored hash is replaced only when a
// new password is supplied.
func (s *PersonService) Update(ctx context.Context, actorID, id string, in UpdatePersonInput) (*domain.PublicAccount, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("person", map[string]any{"id": id})
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	var fields []string
	setString := func(name string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			fields = append(fields, name)
		}
	}
	setString("name", &account.Name, in.Name)
	setString("lastName", &account.LastName, in.LastName)
	setString("document", &account.Document, in.Document)
	setString("phone", &account.Phone, in.Phone)
	setString("email", &account.Email, in.Email)

	if in.BirthDate != nil {
		account.BirthDate = in.BirthDate
		fields = append(fields, "birthDate")
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(*in.Role)})
		}
		if *in.Role != account.Role {
			account.Role = *in.Role
			fields = append(fields, "role")
		}
	}
	passwordChanged := false
	if in.Password != nil {
		if err := validateSecret(*in.Password); err != nil {
			return nil, err
		}
		account.PasswordHash = *in.Password
		passwordChanged = true
	}

	if err := s.writer.update(ctx, account); err != nil {
		return nil, mapWriteError(err)
	}
	s.invalidate(ctx, id)

	s.publish(ctx, events.NewEvent(events.EventAccountUpdated, id, &actorID, events.AccountUpdatedPayload{
		Fields:          fields,
		PasswordChanged: passwordChanged,
	}))
	return account.Public(), nil
}

// Delete removes an account.
func (s *PersonService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("person", map[string]any{"id": id})
		}
		return fmt.Errorf("delete account: %w", err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, events.NewEvent(events.EventAccountDeleted, id, &actorID, nil))
	return nil
}

func (s *PersonService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("account cache invalidation failed", zap.String("account_id", id), zap.Error(err))
	}
}

func (s *PersonService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("account_id", event.AccountID),
			zap.Error(err))
	}
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(msgPersonExists, nil)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("person", nil)
	}
	return fmt.Errorf("write account: %w", err)
}
