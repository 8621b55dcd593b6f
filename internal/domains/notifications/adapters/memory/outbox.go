package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

var _ ports.Transport = (*Outbox)(nil)

// Outbox records delivered emails in memory. Used for demos and tests.
type Outbox struct {
	mu       sync.RWMutex
	sent     []domain.Email
	failWith error
}

// NewOutbox constructs an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// FailWith makes every subsequent delivery return err; nil restores success.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failWith = err
}

// Deliver stores email unless a failure is configured. Failed attempts are not recorded.
func (o *Outbox) Deliver(_ context.Context, email domain.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failWith != nil {
		return o.failWith
	}
	o.sent = append(o.sent, email)
	return nil
}

// Sent returns a copy of every delivered email in order.
func (o *Outbox) Sent() []domain.Email {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]domain.Email(nil), o.sent...)
}

// SentTo returns the emails delivered to address.
func (o *Outbox) SentTo(address string) []domain.Email {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var matched []domain.Email
	for _, email := range o.sent {
		if email.To == address {
			matched = append(matched, email)
		}
	}
	return matched
}

// Reset discards recorded emails.
func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = nil
}
