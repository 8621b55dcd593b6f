package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser_NormalizesAndHashes(t *testing.T) {
	user, err := NewUser("u1", "  Ada@Example.COM ", " Ada ", "correct horse", RoleUser)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong horse"))
	assert.False(t, user.CheckPassword(""))
}

func TestNewUser_Invariants(t *testing.T) {
	_, err := NewUser("u1", "nope", "Ada", "correct horse", RoleUser)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("u1", "a@b.c", "  ", "correct horse", RoleUser)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewUser("u1", "a@b.c", "Ada", "short", RoleUser)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = NewUser("u1", "a@b.c", "Ada", "", RoleUser)
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = NewUser("u1", "a@b.c", "Ada", "correct horse", Role("root"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	role, err = ParseRole(" ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}
	assert.True(t, s.Expired(now))
	assert.False(t, s.Expired(now.Add(-time.Second)))
}
