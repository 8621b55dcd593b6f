package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	notifmemory "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/memory"
	notifapp "github.com/Apurer/go-gin-storefront/internal/domains/notifications/application"
	notifdomain "github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

func newTestNotifier(t *testing.T) (*Notifier, *notifmemory.Outbox) {
	t.Helper()
	outbox := notifmemory.NewOutbox()
	dispatcher := notifapp.NewDispatcher(notifapp.MustRenderer(), outbox, "store@shop.test", "admin@shop.test")
	return NewNotifier(dispatcher, "https://shop.test/"), outbox
}

func sampleOrder(status domain.Status, reason string) *domain.Order {
	return &domain.Order{
		ID:      "o-123",
		Contact: domain.Contact{Email: "ada@example.com", FirstName: "Ada", LastName: "L"},
		Items: []domain.LineItem{
			{ID: "p1-red-m", ProductID: "p1", Name: "Tee", Price: 20, Quantity: 2},
		},
		Total:              45,
		Status:             status,
		CancellationReason: reason,
	}
}

func TestStatusChanged_DeliveredEmailsCustomerWithReviewLinks(t *testing.T) {
	notifier, outbox := newTestNotifier(t)

	require.NoError(t, notifier.StatusChanged(context.Background(), sampleOrder(domain.StatusDelivered, "")))

	sent := outbox.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "ada@example.com", sent[0].To)
	require.Equal(t, notifdomain.KindDelivered, sent[0].Kind)
	require.Equal(t, "Your order has been delivered", sent[0].Subject)
	require.Contains(t, sent[0].HTML, "https://shop.test/review?productId=p1&amp;orderId=o-123")
}

func TestStatusChanged_CancelledIncludesReason(t *testing.T) {
	notifier, outbox := newTestNotifier(t)

	require.NoError(t, notifier.StatusChanged(context.Background(), sampleOrder(domain.StatusCancelled, "out of stock")))

	sent := outbox.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, notifdomain.KindCancelled, sent[0].Kind)
	require.Contains(t, sent[0].HTML, "out of stock")
}

func TestStatusChanged_OtherStatusesGoToCustomer(t *testing.T) {
	notifier, outbox := newTestNotifier(t)

	require.NoError(t, notifier.StatusChanged(context.Background(), sampleOrder(domain.StatusProcessing, "")))

	sent := outbox.SentTo("ada@example.com")
	require.Len(t, sent, 1)
	require.Equal(t, notifdomain.KindStatusChanged, sent[0].Kind)
	require.Contains(t, sent[0].HTML, "Your order is now being processed.")
	require.Empty(t, outbox.SentTo("admin@shop.test"))
}

func TestOrderPlaced_AlertsAdmin(t *testing.T) {
	notifier, outbox := newTestNotifier(t)

	require.NoError(t, notifier.OrderPlaced(context.Background(), sampleOrder(domain.StatusPending, "")))

	sent := outbox.SentTo("admin@shop.test")
	require.Len(t, sent, 1)
	require.Equal(t, "New Order Received", sent[0].Subject)
	require.Contains(t, sent[0].HTML, "https://shop.test/dashboard/orders")
	require.Contains(t, sent[0].HTML, "45.00")
}

func TestReviewURL(t *testing.T) {
	require.Equal(t, "https://shop.test/review?productId=p1&orderId=o1", ReviewURL("https://shop.test/", "p1", "o1"))
}
