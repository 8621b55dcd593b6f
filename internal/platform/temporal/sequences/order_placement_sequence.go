package sequences

import (
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
)

// RunOrderPlacementSequence persists the order with retries, then runs its effects exactly once.
// The order id is fixed before the first attempt so a retry after a committed write
// resolves to the same order.
func RunOrderPlacementSequence(ctx workflow.Context, input ordertypes.PlaceOrderInput) (*ordertypes.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "transactionId", input.TransactionID)
	if input.OrderID == "" {
		if err := workflow.SideEffect(ctx, func(workflow.Context) any {
			return uuid.NewString()
		}).Get(&input.OrderID); err != nil {
			return nil, err
		}
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeInvalidInput,
				orderactivities.ErrTypeDuplicateTransaction,
			},
		},
	}
	effectOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "transactionId", input.TransactionID, "error", err)
		return nil, err
	}
	orderID := projection.Entity.ID
	logger.Info("order placement sequence persisted", "orderId", orderID)

	result := &ordertypes.PlacementResult{Order: &projection}
	completeInput := ordertypes.CompletePlacementInput{OrderID: orderID, Actor: input.Actor}
	var report effects.Report
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, effectOptions), orderactivities.CompletePlacementActivityName, completeInput).Get(ctx, &report); err != nil {
		logger.Warn("order placement effects failed", "orderId", orderID, "error", err)
		report.Add(effects.FailedWith(orderactivities.CompletePlacementActivityName, err))
	}
	result.Effects = report
	return result, nil
}
