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

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/observability/service"

// Service decorates the activity service with tracing, logging, and metrics.
type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	recorded metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.recorded, _ = m.Int64Counter("activity.service.recorded", metric.WithDescription("Number of activity records appended"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Record(ctx context.Context, input types.RecordInput) (*domain.Record, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.Record", trace.WithAttributes(attribute.String("activity.type", input.Type)))
	defer span.End()

	record, err := s.inner.Record(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to record activity",
				slog.String("type", input.Type), slog.String("error", err.Error()))
		}
		return nil, err
	}
	if s.recorded != nil {
		s.recorded.Add(ctx, 1, metric.WithAttributes(attribute.String("activity.type", string(record.Type))))
	}
	return record, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Record, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.Recent", trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	records, err := s.inner.Recent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return records, nil
}

var _ ports.Service = (*Service)(nil)
