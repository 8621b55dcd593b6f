package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the orders bounded context.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error)
}
