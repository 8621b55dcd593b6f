package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps accounts in memory, keyed by id with an email index.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

func NewRepository() *Repository {
	return &Repository{users: map[string]domain.User{}, byEmail: map[string]string{}}
}

func (r *Repository) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return ports.ErrDuplicateEmail
	}
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *Repository) Update(_ context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[user.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return ports.ErrDuplicateEmail
	}
	delete(r.byEmail, current.Email)
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &user, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}
