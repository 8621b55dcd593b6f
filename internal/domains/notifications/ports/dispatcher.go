package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
)

// Dispatcher renders template payloads and hands them to the transport.
type Dispatcher interface {
	// Render is pure: the same payload always yields the same message.
	Render(payload domain.Payload) (domain.Message, error)
	Send(ctx context.Context, recipient domain.Recipient, payload domain.Payload) error
	// SendToAdmin addresses the store owner's notification inbox.
	SendToAdmin(ctx context.Context, payload domain.Payload, replyTo string) error
}
