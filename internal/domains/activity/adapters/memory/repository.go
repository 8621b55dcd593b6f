package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps activity records in insertion order.
type Repository struct {
	mu      sync.RWMutex
	records []*domain.Record
	failErr error
}

func NewRepository() *Repository {
	return &Repository{}
}

// FailWith makes Append return err until reset with nil.
func (r *Repository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *Repository) Append(_ context.Context, record *domain.Record) error {
	if record == nil {
		return errors.New("cannot append nil activity")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.records = append(r.records, record.Clone())
	return nil
}

func (r *Repository) Recent(_ context.Context, limit int) ([]*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i].Clone())
	}
	return out, nil
}

// All returns every record oldest first.
func (r *Repository) All() []*domain.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out
}
