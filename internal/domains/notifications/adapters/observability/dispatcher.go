package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/observability/dispatcher"

// Dispatcher decorates the notification dispatcher with tracing, logging, and metrics.
type Dispatcher struct {
	inner   ports.Dispatcher
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics dispatcherMetrics
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(d *Dispatcher) {
		d.metrics = newDispatcherMetrics(m)
	}
}

// New wraps the core dispatcher.
func New(inner ports.Dispatcher, opts ...Option) ports.Dispatcher {
	d := &Dispatcher{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newDispatcherMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.tracer == nil {
		d.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return d
}

func (d *Dispatcher) Render(payload domain.Payload) (domain.Message, error) {
	return d.inner.Render(payload)
}

func (d *Dispatcher) Send(ctx context.Context, recipient domain.Recipient, payload domain.Payload) error {
	kind := kindOf(payload)
	ctx, span := d.tracer.Start(ctx, "NotificationDispatcher.Send",
		trace.WithAttributes(attribute.String("notification.kind", kind)))
	defer span.End()

	err := d.inner.Send(ctx, recipient, payload)
	d.metrics.recordSend(ctx, kind, err == nil)
	if err != nil {
		return d.handleError(ctx, span, err, "failed to send notification", slog.String("kind", kind), slog.String("to", recipient.To))
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "notification sent", slog.String("kind", kind), slog.String("to", recipient.To))
	return nil
}

func (d *Dispatcher) SendToAdmin(ctx context.Context, payload domain.Payload, replyTo string) error {
	kind := kindOf(payload)
	ctx, span := d.tracer.Start(ctx, "NotificationDispatcher.SendToAdmin",
		trace.WithAttributes(attribute.String("notification.kind", kind)))
	defer span.End()

	err := d.inner.SendToAdmin(ctx, payload, replyTo)
	d.metrics.recordSend(ctx, kind, err == nil)
	if err != nil {
		return d.handleError(ctx, span, err, "failed to send admin notification", slog.String("kind", kind))
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "admin notification sent", slog.String("kind", kind))
	return nil
}

func (d *Dispatcher) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if d.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		d.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func kindOf(payload domain.Payload) string {
	if payload == nil {
		return "unknown"
	}
	return string(payload.Kind())
}

type dispatcherMetrics struct {
	sent   metric.Int64Counter
	failed metric.Int64Counter
}

func newDispatcherMetrics(m metric.Meter) dispatcherMetrics {
	if m == nil {
		return dispatcherMetrics{}
	}
	sent, _ := m.Int64Counter("notifications.dispatcher.sent", metric.WithDescription("Number of emails handed to the transport"))
	failed, _ := m.Int64Counter("notifications.dispatcher.failed", metric.WithDescription("Number of emails that failed to render or send"))
	return dispatcherMetrics{sent: sent, failed: failed}
}

func (m dispatcherMetrics) recordSend(ctx context.Context, kind string, ok bool) {
	counter := m.sent
	if !ok {
		counter = m.failed
	}
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("notification.kind", kind)))
	}
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
