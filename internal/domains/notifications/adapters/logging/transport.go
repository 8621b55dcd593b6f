package logging

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

var _ ports.Transport = (*Transport)(nil)

// Transport logs emails instead of sending them. Used when SMTP is not configured.
type Transport struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{logger: logger}
}

func (t *Transport) Deliver(ctx context.Context, email domain.Email) error {
	t.logger.LogAttrs(ctx, slog.LevelInfo, "email not sent, smtp disabled",
		slog.String("kind", string(email.Kind)),
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.Int("html.bytes", len(email.HTML)),
	)
	return nil
}
