package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input types.LoginInput) (*types.LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token into the caller's principal.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	// EnsureAdmin creates or promotes the bootstrap administrator.
	EnsureAdmin(ctx context.Context, input types.RegisterInput) (*domain.User, error)
	PurgeSessions(ctx context.Context) (int64, error)
}

// ActivityRecorder writes audit entries for account actions.
type ActivityRecorder interface {
	UserRegistered(ctx context.Context, user *domain.User) error
}

// NoopActivityRecorder is a safe default when no audit log is wired.
var NoopActivityRecorder ActivityRecorder = noopActivityRecorder{}

type noopActivityRecorder struct{}

func (noopActivityRecorder) UserRegistered(context.Context, *domain.User) error { return nil }
