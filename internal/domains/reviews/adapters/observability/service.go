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

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/observability/service"

// Service decorates the review service with tracing, logging, and metrics.
type Service struct {
	inner     ports.Service
	tracer    trace.Tracer
	logger    *slog.Logger
	submitted metric.Int64Counter
	negative  metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.submitted, _ = m.Int64Counter("reviews.service.submitted", metric.WithDescription("Number of reviews stored"))
		s.negative, _ = m.Int64Counter("reviews.service.negative", metric.WithDescription("Number of reviews rated 3 or lower"))
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
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*types.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Submit", trace.WithAttributes(
		attribute.String("review.product_id", input.ProductID),
		attribute.String("order.id", input.OrderID),
		attribute.Int("review.rating", input.Rating),
	))
	defer span.End()

	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to submit review",
			slog.String("product_id", input.ProductID), slog.String("order_id", input.OrderID), slog.String("error", err.Error()))
		return nil, err
	}
	if s.submitted != nil {
		s.submitted.Add(ctx, 1)
	}
	if result.Review.Negative() && s.negative != nil {
		s.negative.Add(ctx, 1)
	}
	for _, failed := range result.Effects.Failures() {
		span.AddEvent("effect.failed", trace.WithAttributes(attribute.String("effect", failed.Effect)))
		s.logger.LogAttrs(ctx, slog.LevelWarn, "review effect failed",
			slog.String("review_id", result.Review.ID), slog.String("effect", failed.Effect), slog.String("error", failed.Error))
	}
	return result, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ListByProduct", trace.WithAttributes(attribute.String("review.product_id", productID)))
	defer span.End()
	reviews, err := s.inner.ListByProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return reviews, nil
}

var _ ports.Service = (*Service)(nil)
