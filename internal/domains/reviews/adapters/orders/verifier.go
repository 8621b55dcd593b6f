package orders

import (
	"context"
	"errors"

	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

var _ ports.PurchaseVerifier = (*Verifier)(nil)

// Verifier checks purchases against the orders context.
type Verifier struct {
	orders orderports.Service
}

func NewVerifier(orders orderports.Service) *Verifier {
	return &Verifier{orders: orders}
}

func (v *Verifier) ProductName(ctx context.Context, orderID, productID string) (string, error) {
	item, err := v.orders.FindLineItem(ctx, orderID, productID)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) || errors.Is(err, orderports.ErrItemNotFound) {
			return "", ports.ErrPurchaseNotFound
		}
		return "", err
	}
	return item.Name, nil
}
