package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service exposes user bounded context use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	activity   ports.ActivityRecorder
	sessionTTL time.Duration
	newID      func() string
	newToken   func() string
	now        func() time.Time
}

type Option func(*Service)

// WithSessionTTL overrides how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithActivityRecorder records user_registered entries on sign-up.
func WithActivityRecorder(recorder ports.ActivityRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.activity = recorder
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides user id and token generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
			s.newToken = gen
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		activity:   ports.NoopActivityRecorder,
		sessionTTL: DefaultSessionTTL,
		newID:      uuid.NewString,
		newToken:   uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a regular account. The audit entry is best-effort.
func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), input.Email, input.Name, input.Password, domain.RoleUser)
	if err != nil {
		return nil, mapError(err)
	}
	user.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, mapError(err)
	}
	_ = s.activity.UserRegistered(ctx, user)
	return user, nil
}

func (s *Service) Login(ctx context.Context, input types.LoginInput) (*types.LoginResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !user.CheckPassword(input.Password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	now := s.now().UTC()
	session := domain.Session{
		Token:     s.newToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &types.LoginResult{Token: session.Token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate rejects unknown and expired tokens; expired ones are removed on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, mapError(ports.ErrSessionNotFound)
	}
	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrSessionNotFound)
		}
		return nil, err
	}
	principal := user.Principal()
	return &principal, nil
}

// EnsureAdmin is idempotent: an existing account is promoted and keeps its password.
func (s *Service) EnsureAdmin(ctx context.Context, input types.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return existing, nil
		}
		existing.Promote()
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	user, err := domain.NewUser(s.newID(), input.Email, input.Name, input.Password, domain.RoleAdmin)
	if err != nil {
		return nil, mapError(err)
	}
	user.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (s *Service) PurgeSessions(ctx context.Context) (int64, error) {
	return s.sessions.PurgeExpired(ctx, s.now())
}

var _ ports.Service = (*Service)(nil)
