package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrDuplicateTransaction = errors.New("an order with this transaction id already exists")
	ErrItemNotFound         = errors.New("product not found in order")
)

// Repository persists orders. Orders are never deleted.
type Repository interface {
	// Create inserts a new order; ErrDuplicateTransaction when the transaction id is taken.
	Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error)
	GetByID(ctx context.Context, id string) (*types.OrderProjection, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*types.OrderProjection, error)
	// UpdateStatus applies change in a single atomic find-and-update and returns the new state.
	UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*types.OrderProjection, error)
	// List returns orders newest first together with the total count.
	List(ctx context.Context, offset, limit int) ([]*types.OrderProjection, int64, error)
	// FindForTracking matches on id and the stored lower-cased contact email.
	FindForTracking(ctx context.Context, id, email string) (*types.OrderProjection, error)
	CountByStatus(ctx context.Context, status domain.Status) (int64, error)
}
