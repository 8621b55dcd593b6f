package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
)

// ErrPurchaseNotFound means the order does not exist or does not contain the product.
var ErrPurchaseNotFound = errors.New("order or product not found")

type Repository interface {
	Create(ctx context.Context, review *domain.Review) error
	// ListByProduct returns reviews newest first.
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
}

// PurchaseVerifier confirms that an order contains the reviewed product.
type PurchaseVerifier interface {
	// ProductName returns the purchased item's name, or ErrPurchaseNotFound.
	ProductName(ctx context.Context, orderID, productID string) (string, error)
}

// Alerter tells the store owner about low ratings.
type Alerter interface {
	NegativeReview(ctx context.Context, review *domain.Review, productName string) error
}

// Service exposes the review use cases to adapters.
type Service interface {
	Submit(ctx context.Context, input types.SubmitInput) (*types.SubmitResult, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
}
