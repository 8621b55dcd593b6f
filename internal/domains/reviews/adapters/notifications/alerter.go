package notifications

import (
	"context"

	notifdomain "github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	notifports "github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

var _ ports.Alerter = (*Alerter)(nil)

// Alerter sends negative-review-alert emails to the store admin.
type Alerter struct {
	dispatcher notifports.Dispatcher
}

func NewAlerter(dispatcher notifports.Dispatcher) *Alerter {
	return &Alerter{dispatcher: dispatcher}
}

func (a *Alerter) NegativeReview(ctx context.Context, review *domain.Review, productName string) error {
	return a.dispatcher.SendToAdmin(ctx, notifdomain.NegativeReviewAlert{
		CustomerName: review.Name,
		ProductName:  productName,
		Rating:       review.Rating,
		Review:       review.Comment,
		OrderID:      review.OrderID,
	}, "")
}
