package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Envelope is the JSON body published for every order event.
type Envelope struct {
	Name       string       `json:"name"`
	OccurredAt time.Time    `json:"occurredAt"`
	Data       domain.Event `json:"data"`
}

// Subject returns the NATS subject an event is published on.
func Subject(prefix string, event domain.Event) string {
	if prefix == "" {
		return event.EventName()
	}
	return prefix + "." + event.EventName()
}

// Encode marshals event into its envelope.
func Encode(event domain.Event) ([]byte, error) {
	if event == nil {
		return nil, errors.New("event is nil")
	}
	return json.Marshal(Envelope{
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt().UTC(),
		Data:       event,
	})
}

// Publisher sends order events to NATS core subjects.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

func NewPublisher(conn *nats.Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.conn == nil {
		return errors.New("nats publisher not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	if err := p.conn.Publish(Subject(p.prefix, event), data); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventName(), err)
	}
	return nil
}

// Connect dials NATS. An empty url yields the no-op publisher and a no-op close.
func Connect(url string, logger *slog.Logger) (ports.EventPublisher, func(), error) {
	if url == "" {
		return ports.NoopEventPublisher, func() {}, nil
	}
	conn, err := nats.Connect(url,
		nats.Name("storefront-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil && logger != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewPublisher(conn, ""), func() {
		_ = conn.Drain()
	}, nil
}
