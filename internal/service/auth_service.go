package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/events"
	"github.com/spec-kit/hospital-service/internal/observability"
	"github.com/spec-kit/hospital-service/internal/repository"
	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgAlreadyRegistered  = "email, document or phone already registered"
)

// RegisterInput carries self-registration data.
type RegisterInput struct {
	Name      string
	LastName  string
	Document  string
	Phone     string
	Email     string
	Password  string
	BirthDate *time.Time
	Role      domain.Role
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.PublicAccount
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts repository.AccountRepository
	writer   accountWriter
	hasher   auth.Hasher
	tokenMgr *auth.TokenManager
	events   events.Dispatcher
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	Hasher       auth.Hasher
	TokenManager *auth.TokenManager
	Events       events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts: deps.AccountRepo,
		writer:   accountWriter{repo: deps.AccountRepo, hasher: deps.Hasher},
		hasher:   deps.Hasher,
		tokenMgr: deps.TokenManager,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// ValidateCredentials returns the account's public fields when the secret
// matches, and nil when the account is unknown or the secret is wrong.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.PublicAccount, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify secret: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return account.Public(), nil
}

// Login authenticates an account and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeError)
		return nil, err
	}
	if user == nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeRejected)
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.metrics.RecordAuthEvent("login", observability.OutcomeSuccess)
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// Register creates a new account. A clash on email, document or phone is
// reported as UNAUTHORIZED rather than CONFLICT.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.PublicAccount, error) {
	role := in.Role
	if role == "" {
		role = domain.RolePatient
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	if err := validateSecret(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.accounts.FindByUniqueFields(ctx, in.Email, in.Document, in.Phone)
	if err == nil && existing != nil {
		s.metrics.RecordAuthEvent("register", observability.OutcomeRejected)
		return nil, apperrors.NewUnauthorized(msgAlreadyRegistered)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.metrics.RecordAuthEvent("register", observability.OutcomeError)
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
		Role:         role,
	}
	if err := s.writer.create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.RecordAuthEvent("register", observability.OutcomeRejected)
			return nil, apperrors.NewUnauthorized(msgAlreadyRegistered)
		}
		s.metrics.RecordAuthEvent("register", observability.OutcomeError)
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.metrics.RecordAuthEvent("register", observability.OutcomeSuccess)

	s.publish(ctx, events.NewEvent(events.EventAccountRegistered, account.ID, nil, events.AccountRegisteredPayload{
		Email: account.Email,
		Name:  account.Name,
		Role:  account.Role,
	}))
	return account.Public(), nil
}

// ChangePassword verifies the current secret before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if err := validateSecret(newPassword); err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.RecordAuthEvent("password_change", observability.OutcomeRejected)
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}

	ok, err := s.hasher.Verify(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify secret: %w", err)
	}
	if !ok {
		s.metrics.RecordAuthEvent("password_change", observability.OutcomeRejected)
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	account.PasswordHash = newPassword
	if err := s.writer.update(ctx, account); err != nil {
		s.metrics.RecordAuthEvent("password_change", observability.OutcomeError)
		return fmt.Errorf("update account: %w", err)
	}
	s.metrics.RecordAuthEvent("password_change", observability.OutcomeSuccess)

	s.publish(ctx, events.NewEvent(events.EventAccountPasswordChanged, account.ID, &account.ID, nil))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
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
