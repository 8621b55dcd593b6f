package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

// ErrTransportFailed wraps every transport error so callers can map it to a gateway failure.
var ErrTransportFailed = errors.New("email transport failed")

// Dispatcher renders payloads and delivers them through a single transport attempt.
type Dispatcher struct {
	renderer  *Renderer
	transport ports.Transport
	from      string
	admin     string
}

// NewDispatcher wires the dispatcher. from is the default sender and admin the store owner's inbox;
// the storefront uses one mailbox for both.
func NewDispatcher(renderer *Renderer, transport ports.Transport, from, admin string) *Dispatcher {
	if renderer == nil {
		renderer = MustRenderer()
	}
	return &Dispatcher{
		renderer:  renderer,
		transport: transport,
		from:      strings.TrimSpace(from),
		admin:     strings.TrimSpace(admin),
	}
}

// Render delegates to the template renderer.
func (d *Dispatcher) Render(payload domain.Payload) (domain.Message, error) {
	return d.renderer.Render(payload)
}

// Send renders payload and makes exactly one delivery attempt.
func (d *Dispatcher) Send(ctx context.Context, recipient domain.Recipient, payload domain.Payload) error {
	to := strings.TrimSpace(recipient.To)
	if to == "" {
		return domain.ErrMissingRecipient
	}
	msg, err := d.renderer.Render(payload)
	if err != nil {
		return err
	}
	if d.transport == nil {
		return errors.Join(ErrTransportFailed, errors.New("no email transport configured"))
	}
	from := strings.TrimSpace(recipient.From)
	if from == "" {
		from = d.from
	}
	email := domain.Email{
		Kind:    payload.Kind(),
		From:    from,
		To:      to,
		ReplyTo: strings.TrimSpace(recipient.ReplyTo),
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	if err := d.transport.Deliver(ctx, email); err != nil {
		return errors.Join(ErrTransportFailed, err)
	}
	return nil
}

// SendToAdmin sends payload to the store owner, optionally replying to a customer address.
func (d *Dispatcher) SendToAdmin(ctx context.Context, payload domain.Payload, replyTo string) error {
	return d.Send(ctx, domain.Recipient{To: d.admin, ReplyTo: replyTo}, payload)
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
