package mapper

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	userdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User represents the transport-level user payload. The password hash never leaves the service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

func ToRegisterInput(req RegisterRequest) types.RegisterInput {
	return types.RegisterInput{Email: req.Email, Name: req.Name, Password: req.Password}
}

func ToLoginInput(req LoginRequest) types.LoginInput {
	return types.LoginInput{Email: req.Email, Password: req.Password}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func FromLoginResult(result *types.LoginResult) Session {
	if result == nil {
		return Session{}
	}
	return Session{Token: result.Token, ExpiresAt: result.ExpiresAt, User: FromDomainUser(result.User)}
}
