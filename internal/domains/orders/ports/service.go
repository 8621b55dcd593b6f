package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
)

// Service exposes the order lifecycle use cases to adapters (inbound/driving port).
type Service interface {
	// PlaceOrder persists a checkout and runs its follow-up effects.
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error)
	// PersistOrder validates and stores an order without running effects.
	PersistOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error)
	// CompletePlacement runs the post-creation effects for a stored order.
	CompletePlacement(ctx context.Context, input types.CompletePlacementInput) (effects.Report, error)
	Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error)
	GetByID(ctx context.Context, id string) (*types.OrderProjection, error)
	List(ctx context.Context, input types.ListOrdersInput) (*types.OrderList, error)
	Track(ctx context.Context, input types.TrackInput) (*types.TrackingView, error)
	Summary(ctx context.Context) (*types.DashboardSummary, error)
	// FindLineItem returns the line item for productID within orderID.
	FindLineItem(ctx context.Context, orderID, productID string) (*domain.LineItem, error)
}
