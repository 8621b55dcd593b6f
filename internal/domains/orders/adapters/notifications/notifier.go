package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	notifdomain "github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	notifports "github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier turns order lifecycle moments into notification payloads.
type Notifier struct {
	dispatcher notifports.Dispatcher
	baseURL    string
}

// NewNotifier builds links against publicBaseURL, the storefront's public origin.
func NewNotifier(dispatcher notifports.Dispatcher, publicBaseURL string) *Notifier {
	return &Notifier{dispatcher: dispatcher, baseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}
}

// OrderPlaced alerts the store admin.
func (n *Notifier) OrderPlaced(ctx context.Context, order *domain.Order) error {
	if n.dispatcher == nil {
		return errors.New("notification dispatcher not configured")
	}
	return n.dispatcher.SendToAdmin(ctx, notifdomain.OrderCreatedAdminAlert{
		OrderID:      order.ID,
		CustomerName: order.Contact.FullName(),
		Total:        mapper.Money(order.Total),
		DashboardURL: n.baseURL + "/dashboard/orders",
	}, "")
}

// StatusChanged sends exactly one customer email chosen by the new status.
func (n *Notifier) StatusChanged(ctx context.Context, order *domain.Order) error {
	if n.dispatcher == nil {
		return errors.New("notification dispatcher not configured")
	}
	recipient := notifdomain.Recipient{To: order.Contact.Email}
	return n.dispatcher.Send(ctx, recipient, n.payloadFor(order))
}

func (n *Notifier) payloadFor(order *domain.Order) notifdomain.Payload {
	switch order.Status {
	case domain.StatusCancelled:
		return notifdomain.Cancelled{
			FirstName: order.Contact.FirstName,
			OrderID:   order.ID,
			Reason:    order.CancellationReason,
			Items:     n.items(order, false),
		}
	case domain.StatusDelivered:
		return notifdomain.Delivered{
			FirstName: order.Contact.FirstName,
			OrderID:   order.ID,
			Items:     n.items(order, true),
		}
	default:
		return notifdomain.StatusChanged{
			FirstName: order.Contact.FirstName,
			OrderID:   order.ID,
			Status:    string(order.Status),
			Items:     n.items(order, false),
		}
	}
}

func (n *Notifier) items(order *domain.Order, withReviewLinks bool) []notifdomain.Item {
	items := make([]notifdomain.Item, 0, len(order.Items))
	for _, item := range order.Items {
		entry := notifdomain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Color:     item.Color,
			Size:      item.Size,
			Image:     item.Image,
		}
		if withReviewLinks {
			entry.ReviewURL = ReviewURL(n.baseURL, item.ProductID, order.ID)
		}
		items = append(items, entry)
	}
	return items
}

// ReviewURL builds "{base}/review?productId={productId}&orderId={orderId}".
func ReviewURL(baseURL, productID, orderID string) string {
	return fmt.Sprintf("%s/review?productId=%s&orderId=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(productID), url.QueryEscape(orderID))
}
