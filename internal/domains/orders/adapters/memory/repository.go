package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter used for demos and tests.
type Repository struct {
	mu            sync.RWMutex
	orders        map[string]*storedOrder
	byTransaction map[string]string
	seq           int64
	now           func() time.Time
}

type storedOrder struct {
	order    *domain.Order
	metadata projection.Metadata
	seq      int64
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		orders:        map[string]*storedOrder{},
		byTransaction: map[string]string{},
		now:           time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create stores a new order.
func (r *Repository) Create(_ context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byTransaction[order.TransactionID]; taken {
		return nil, ports.ErrDuplicateTransaction
	}
	if _, exists := r.orders[order.ID]; exists {
		return nil, errors.New("order id already exists")
	}
	r.seq++
	timestamp := r.now()
	stored := &storedOrder{
		order:    order.Clone(),
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
		seq:      r.seq,
	}
	r.orders[order.ID] = stored
	r.byTransaction[order.TransactionID] = order.ID
	return projectionCopy(stored), nil
}

// GetByID fetches an order if present.
func (r *Repository) GetByID(_ context.Context, id string) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(stored), nil
}

// UpdateStatus applies the change under the write lock.
func (r *Repository) UpdateStatus(_ context.Context, id string, change domain.StatusChange) (*types.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored.order.Apply(change)
	stored.metadata.UpdatedAt = r.now()
	return projectionCopy(stored), nil
}

// List returns orders newest first.
func (r *Repository) List(_ context.Context, offset, limit int) ([]*types.OrderProjection, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := make([]*storedOrder, 0, len(r.orders))
	for _, stored := range r.orders {
		sorted = append(sorted, stored)
	}
	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := sorted[i].metadata.CreatedAt, sorted[j].metadata.CreatedAt
		if ci.Equal(cj) {
			return sorted[i].seq > sorted[j].seq
		}
		return ci.After(cj)
	})
	total := int64(len(sorted))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(sorted) {
		return []*types.OrderProjection{}, total, nil
	}
	end := len(sorted)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	list := make([]*types.OrderProjection, 0, end-offset)
	for _, stored := range sorted[offset:end] {
		list = append(list, projectionCopy(stored))
	}
	return list, total, nil
}

// FindByTransactionID returns the order created for a payment reference.
func (r *Repository) FindByTransactionID(_ context.Context, transactionID string) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byTransaction[transactionID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(r.orders[id]), nil
}

// FindForTracking matches id and stored email exactly.
func (r *Repository) FindForTracking(_ context.Context, id, email string) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok || stored.order.Contact.Email != email {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(stored), nil
}

// CountByStatus counts orders in status.
func (r *Repository) CountByStatus(_ context.Context, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, stored := range r.orders {
		if stored.order.Status == status {
			count++
		}
	}
	return count, nil
}

func projectionCopy(stored *storedOrder) *types.OrderProjection {
	return &types.OrderProjection{
		Entity:   stored.order.Clone(),
		Metadata: stored.metadata,
	}
}
