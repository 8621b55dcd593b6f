package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidRole   = errors.New("role must be admin or user")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordCost is the bcrypt cost used when hashing new passwords.
var PasswordCost = bcrypt.DefaultCost

// Role gates access to the admin surface.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates raw; an empty value defaults to RoleUser.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is a storefront account. Email is stored lower-cased and is unique.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NewUser builds a user ensuring required invariants and hashes the password.
func NewUser(id, email, name, password string, role Role) (*User, error) {
	user := &User{ID: id, Role: role}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleUser {
		return nil, ErrInvalidRole
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail trims, lower-cases and validates the email.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetPassword validates basic password strength and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the stored hash with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Promote grants the admin role.
func (u *User) Promote() {
	u.Role = RoleAdmin
}

// Principal returns the identity carried by authenticated requests.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NormalizeEmail trims and lower-cases an address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Session is a bearer token bound to a user until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
