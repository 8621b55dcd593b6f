package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/platform/temporal/sequences"
)

const (
	// PlacementWorkflowName is the public identifier for registering the workflow.
	PlacementWorkflowName = "orders.workflows.Placement"
	// PlacementTaskQueue is the queue consumed by the worker processing order workflows.
	PlacementTaskQueue = "ORDER_PLACEMENT"
)

// PlacementWorkflowInput captures the checkout to persist.
type PlacementWorkflowInput struct {
	Command ordertypes.PlaceOrderInput
	TraceID string
}

// PlacementWorkflow orchestrates the activities needed to place an order.
func PlacementWorkflow(ctx workflow.Context, input PlacementWorkflowInput) (*ordertypes.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PlacementWorkflow started", withTraceID(input.TraceID, "transactionId", input.Command.TransactionID)...)
	result, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PlacementWorkflow failed", withTraceID(input.TraceID, "transactionId", input.Command.TransactionID, "error", err)...)
		return nil, err
	}
	logger.Info("PlacementWorkflow completed", withTraceID(input.TraceID, "orderId", result.Order.Entity.ID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
