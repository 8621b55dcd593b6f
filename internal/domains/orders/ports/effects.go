package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// Notifier sends order emails through the notifications context.
type Notifier interface {
	// OrderPlaced alerts the store admin about a new order.
	OrderPlaced(ctx context.Context, order *domain.Order) error
	// StatusChanged informs the customer about a transition.
	StatusChanged(ctx context.Context, order *domain.Order) error
}

// ActivityRecorder writes audit entries for order actions.
type ActivityRecorder interface {
	OrderCreated(ctx context.Context, order *domain.Order, actor types.Actor) error
}

// EventPublisher emits order domain events to external subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopNotifier, NoopActivityRecorder and NoopEventPublisher are safe defaults.
var (
	NoopNotifier         Notifier         = noopNotifier{}
	NoopActivityRecorder ActivityRecorder = noopActivityRecorder{}
	NoopEventPublisher   EventPublisher   = noopEventPublisher{}
)

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(context.Context, *domain.Order) error   { return nil }
func (noopNotifier) StatusChanged(context.Context, *domain.Order) error { return nil }

type noopActivityRecorder struct{}

func (noopActivityRecorder) OrderCreated(context.Context, *domain.Order, types.Actor) error {
	return nil
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, domain.Event) error { return nil }
