package types

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued session plus the account it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}
