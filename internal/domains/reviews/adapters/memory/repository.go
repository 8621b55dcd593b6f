package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Create(_ context.Context, review *domain.Review) error {
	if review == nil {
		return errors.New("review is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *Repository) ListByProduct(_ context.Context, productID string) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			review := r.reviews[i]
			out = append(out, &review)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
