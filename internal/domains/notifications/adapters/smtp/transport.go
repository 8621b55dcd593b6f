package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

var _ ports.Transport = (*Transport)(nil)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Transport delivers emails over SMTP with go-mail. Each Deliver opens one connection.
type Transport struct {
	client *mail.Client
}

// New builds an SMTP transport. Port 465 uses implicit TLS, any other port requires STARTTLS.
func New(cfg Config) (*Transport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	opts := []mail.Option{mail.WithTimeout(cfg.timeout())}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Transport{client: client}, nil
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 15 * time.Second
}

// Deliver sends email with an HTML body and a plain-text alternative.
func (t *Transport) Deliver(ctx context.Context, email domain.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return err
	}
	return t.client.DialAndSendWithContext(ctx, msg)
}

func buildMessage(email domain.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", email.From, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", email.ReplyTo, err)
		}
	}
	msg.Subject(email.Subject)
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	if email.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.Text)
	}
	return msg, nil
}
