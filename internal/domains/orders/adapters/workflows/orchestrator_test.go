package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
)

func TestBuildPlacementWorkflowID_DeterministicPerTransaction(t *testing.T) {
	a := buildPlacementWorkflowID("T1")
	assert.Equal(t, a, buildPlacementWorkflowID(" T1 "))
	assert.NotEqual(t, a, buildPlacementWorkflowID("T2"))
	assert.Len(t, a, len("order-placement-")+16)
}

func TestTranslateWorkflowError(t *testing.T) {
	dup := temporal.NewNonRetryableApplicationError("taken", orderactivities.ErrTypeDuplicateTransaction, nil)
	assert.ErrorIs(t, translateWorkflowError(fmt.Errorf("workflow failed: %w", dup)), ports.ErrDuplicateTransaction)

	invalid := temporal.NewNonRetryableApplicationError("bad items", orderactivities.ErrTypeInvalidInput, nil)
	assert.ErrorIs(t, translateWorkflowError(invalid), application.ErrInvalidInput)

	other := errors.New("timeout")
	assert.Same(t, other, translateWorkflowError(other))
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	svc := application.NewService(memory.NewRepository())
	orchestrator := NewInlineOrderWorkflows(svc)

	result, err := orchestrator.PlaceOrder(context.Background(), types.PlaceOrderInput{
		Contact: domain.Contact{
			Email: "a@b.com", FirstName: "Ada", LastName: "L", Address: "1 Way",
			City: "X", State: "Y", Zip: "1", Phone: "5", Country: "NG",
		},
		Items:         []domain.LineItem{{Name: "Tee", Price: 20, Quantity: 2}},
		Total:         40,
		TransactionID: "T1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, result.Order.Entity.Status)
}

func TestTemporalOrderWorkflows_RequiresClient(t *testing.T) {
	var orchestrator *TemporalOrderWorkflows
	_, err := orchestrator.PlaceOrder(context.Background(), types.PlaceOrderInput{})
	assert.EqualError(t, err, "temporal order workflows not configured")
}
