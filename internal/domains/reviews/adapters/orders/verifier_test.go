package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

func TestVerifier_ProductName(t *testing.T) {
	ctx := context.Background()
	svc := orderapp.NewService(ordermemory.NewRepository())
	placed, err := svc.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		Contact: orderdomain.Contact{
			Email: "a@b.com", FirstName: "Ada", LastName: "L", Address: "1 Main",
			City: "X", State: "Y", Zip: "1", Phone: "5", Country: "Z",
		},
		Items:         []orderdomain.LineItem{{ID: "p1-red-m", ProductID: "p1", Name: "Tee", Price: 20, Quantity: 2}},
		Total:         40,
		TransactionID: "tx-1",
	})
	require.NoError(t, err)

	verifier := NewVerifier(svc)
	name, err := verifier.ProductName(ctx, placed.Order.Entity.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tee", name)

	_, err = verifier.ProductName(ctx, placed.Order.Entity.ID, "p2")
	assert.ErrorIs(t, err, ports.ErrPurchaseNotFound)

	_, err = verifier.ProductName(ctx, "missing", "p1")
	assert.ErrorIs(t, err, ports.ErrPurchaseNotFound)
}
