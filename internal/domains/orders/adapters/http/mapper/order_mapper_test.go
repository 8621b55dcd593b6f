package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

func TestFromProjection_RendersAdminView(t *testing.T) {
	created := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	order := &domain.Order{
		ID: "abc",
		Contact: domain.Contact{
			Email: "a@b.com", FirstName: "Ada", LastName: "L", Address: "1 Way",
			City: "X", State: "Y", Zip: "1", Phone: "5", Country: "NG",
		},
		Items:         []domain.LineItem{{Name: "Tee", Price: 20, Quantity: 2}},
		Total:         45,
		Shipping:      5,
		TransactionID: "T1",
		Status:        domain.StatusPending,
	}

	view := FromProjection(types.NewOrderProjection(order, created, created))
	require.Equal(t, "Ada L", view.Customer)
	require.Equal(t, "1 Way, X, Y 1, NG", view.CustomerDetails.Address)
	require.Equal(t, "2024-03-09", view.Date)
	require.Equal(t, "40.00", view.Subtotal)
	require.Equal(t, "5.00", view.Shipping)
	require.Equal(t, "0.00", view.Tax)
	require.Equal(t, "45.00", view.Total)
	require.Equal(t, "Credit Card", view.PaymentMethod)
	require.Nil(t, view.CancellationReason)

	order.Status = domain.StatusCancelled
	order.CancellationReason = "Out of stock"
	view = FromProjection(types.NewOrderProjection(order, created, created))
	require.NotNil(t, view.CancellationReason)
	require.Equal(t, "Out of stock", *view.CancellationReason)
}

func TestToPlaceOrderInput(t *testing.T) {
	total := 40.0
	req := CreateOrderRequest{
		FormData:      ContactForm{Email: "a@b.com", FirstName: "Ada"},
		Items:         []LineItem{{ID: "p1-red", Name: "Tee", Price: 20, Quantity: 2}},
		Total:         &total,
		TransactionID: "T1",
	}
	input, err := ToPlaceOrderInput(req, types.Actor{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, "a@b.com", input.Contact.Email)
	require.Equal(t, 40.0, input.Total)
	require.Len(t, input.Items, 1)
	require.Equal(t, "p1-red", input.Items[0].ID)
	require.Equal(t, "u1", input.Actor.UserID)
}

func TestToPlaceOrderInput_MissingTotalIsRequired(t *testing.T) {
	req := CreateOrderRequest{
		FormData: ContactForm{
			Email: "a@b.com", FirstName: "Ada", LastName: "L", Address: "1 Way",
			City: "X", State: "Y", Zip: "1", Phone: "5", Country: "NG",
		},
		Items:         []LineItem{{ID: "gift-1", Name: "Gift card", Price: 0, Quantity: 1}},
		TransactionID: "T1",
	}

	_, err := ToPlaceOrderInput(req, types.Actor{})

	fields, ok := validation.Fields(err)
	require.True(t, ok)
	require.Equal(t, map[string]string{"total": "total is required"}, fields)

	req.TransactionID = ""
	_, err = ToPlaceOrderInput(req, types.Actor{})
	fields, ok = validation.Fields(err)
	require.True(t, ok)
	require.Contains(t, fields, "total")
	require.Contains(t, fields, "transactionId")
}

func TestMoney(t *testing.T) {
	require.Equal(t, "0.30", Money(0.1*3))
	require.Equal(t, "12.35", Money(12.345))
}
