package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
)

func samplePayloads() []domain.Payload {
	items := []domain.Item{{ProductID: "p1", Name: "Tee", Quantity: 2, Price: 20, Color: "red", ReviewURL: "https://shop.test/review?productId=p1&orderId=o1"}}
	return []domain.Payload{
		domain.OrderCreatedAdminAlert{OrderID: "o1", CustomerName: "Ada L", Total: "45.00", DashboardURL: "https://shop.test/dashboard/orders"},
		domain.StatusChanged{FirstName: "Ada", OrderID: "o1", Status: "shipped", Items: items},
		domain.Delivered{FirstName: "Ada", OrderID: "o1", Items: items},
		domain.Cancelled{FirstName: "Ada", OrderID: "o1", Reason: "Out of stock", Items: items},
		domain.NegativeReviewAlert{CustomerName: "Ada", ProductName: "Tee", Rating: 2, OrderID: "o1"},
		domain.ContactMessage{Name: "Ada", Email: "a@b.com", Topic: "Sizing", Message: "Do you have XL?"},
	}
}

func TestRenderer_RendersEveryKind(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	for _, payload := range samplePayloads() {
		msg, err := renderer.Render(payload)
		require.NoError(t, err, payload.Kind())
		require.Equal(t, payload.Subject(), msg.Subject)
		require.Contains(t, msg.HTML, "<!DOCTYPE html>")
		require.NotEmpty(t, msg.Text, payload.Kind())
	}
}

func TestRenderer_IsDeterministic(t *testing.T) {
	renderer := MustRenderer()
	payload := samplePayloads()[2]

	first, err := renderer.Render(payload)
	require.NoError(t, err)
	second, err := renderer.Render(payload)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderer_DeliveredIncludesReviewLinks(t *testing.T) {
	msg, err := MustRenderer().Render(samplePayloads()[2])
	require.NoError(t, err)
	require.Contains(t, msg.HTML, `href="https://shop.test/review?productId=p1&amp;orderId=o1"`)
	require.Contains(t, msg.HTML, "$20.00")
	require.Contains(t, msg.Text, "Leave a Review")
}

func TestRenderer_CancelledIncludesReason(t *testing.T) {
	msg, err := MustRenderer().Render(samplePayloads()[3])
	require.NoError(t, err)
	require.Contains(t, msg.HTML, "Out of stock")
	require.Contains(t, msg.HTML, "Tee (x2) - $20.00")
}

func TestRenderer_EscapesUserContent(t *testing.T) {
	msg, err := MustRenderer().Render(domain.ContactMessage{Name: "<b>x</b>", Email: "a@b.com", Topic: "t", Message: "<script>alert(1)</script>"})
	require.NoError(t, err)
	require.NotContains(t, msg.HTML, "<script>")
	require.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestRenderer_MissingFieldFailsLoudly(t *testing.T) {
	_, err := MustRenderer().Render(domain.Delivered{OrderID: "o1"})
	require.ErrorIs(t, err, domain.ErrMissingField)
}

func TestDispatcher_SendUsesDefaultsAndSingleAttempt(t *testing.T) {
	outbox := memory.NewOutbox()
	dispatcher := NewDispatcher(MustRenderer(), outbox, "store@shop.test", "admin@shop.test")
	ctx := context.Background()

	err := dispatcher.Send(ctx, domain.Recipient{To: "buyer@example.com"}, samplePayloads()[2])
	require.NoError(t, err)
	sent := outbox.SentTo("buyer@example.com")
	require.Len(t, sent, 1)
	require.Equal(t, "store@shop.test", sent[0].From)
	require.Equal(t, domain.KindDelivered, sent[0].Kind)

	err = dispatcher.SendToAdmin(ctx, samplePayloads()[5], "a@b.com")
	require.NoError(t, err)
	admin := outbox.SentTo("admin@shop.test")
	require.Len(t, admin, 1)
	require.Equal(t, "a@b.com", admin[0].ReplyTo)
	require.Equal(t, "Sizing", admin[0].Subject)
}

func TestDispatcher_TransportFailure(t *testing.T) {
	outbox := memory.NewOutbox()
	outbox.FailWith(errors.New("connection refused"))
	dispatcher := NewDispatcher(nil, outbox, "store@shop.test", "admin@shop.test")

	err := dispatcher.Send(context.Background(), domain.Recipient{To: "buyer@example.com"}, samplePayloads()[1])
	require.ErrorIs(t, err, ErrTransportFailed)
	require.Empty(t, outbox.Sent())
}

func TestDispatcher_RequiresRecipient(t *testing.T) {
	dispatcher := NewDispatcher(nil, memory.NewOutbox(), "store@shop.test", "")
	err := dispatcher.SendToAdmin(context.Background(), samplePayloads()[0], "")
	require.ErrorIs(t, err, domain.ErrMissingRecipient)
}
