package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
)

// Transport delivers one rendered email. Implementations make a single attempt.
type Transport interface {
	Deliver(ctx context.Context, email domain.Email) error
}
