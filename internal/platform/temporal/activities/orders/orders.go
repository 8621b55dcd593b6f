package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
)

const (
	// PersistOrderActivityName stores a validated checkout without running effects.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// CompletePlacementActivityName runs the post-creation effects for a stored order.
	CompletePlacementActivityName = "orders.activities.CompletePlacement"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidInput         = "InvalidInput"
	ErrTypeDuplicateTransaction = "DuplicateTransaction"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder stores a new order and returns its projection. Domain rejections are not retried.
func (a *Activities) PersistOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "transactionId", input.TransactionID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "transactionId", input.TransactionID)
	projection, err := a.service.PersistOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "transactionId", input.TransactionID, "error", err)
		return nil, classify(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// CompletePlacement never fails on effect errors; they are returned in the report.
func (a *Activities) CompletePlacement(ctx context.Context, input ordertypes.CompletePlacementInput) (effects.Report, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("order placement activity not initialized")
	}
	report, err := a.service.CompletePlacement(ctx, input)
	if err != nil {
		logger.Error("CompletePlacement activity failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	for _, failed := range report.Failures() {
		logger.Warn("order effect failed", "orderId", input.OrderID, "effect", failed.Effect, "error", failed.Error)
	}
	return report, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, orderports.ErrDuplicateTransaction):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeDuplicateTransaction, nil)
	case errors.Is(err, orderapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	default:
		return err
	}
}
