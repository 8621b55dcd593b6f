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

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
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
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
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

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.String("order.transaction_id", input.TransactionID), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.transaction_id", input.TransactionID))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.transaction_id", input.TransactionID))
	}
	s.metrics.recordPlaced(ctx)
	s.reportEffects(ctx, span, result.Order.Entity.ID, result.Effects)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.Order.Entity.ID), slog.String("effects", result.Effects.String()))
	return result, nil
}

func (s *Service) PersistOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PersistOrder",
		trace.WithAttributes(attribute.String("order.transaction_id", input.TransactionID)))
	defer span.End()

	result, err := s.inner.PersistOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to persist order", slog.String("order.transaction_id", input.TransactionID))
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order persisted", slog.String("order.id", result.Entity.ID))
	return result, nil
}

func (s *Service) CompletePlacement(ctx context.Context, input types.CompletePlacementInput) (effects.Report, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CompletePlacement", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	report, err := s.inner.CompletePlacement(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete order placement", slog.String("order.id", input.OrderID))
	}
	s.reportEffects(ctx, span, input.OrderID, report)
	return report, nil
}

func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Transition",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.status", input.Status)))
	defer span.End()

	s.logInfo(ctx, "transitioning order", slog.String("order.id", input.OrderID), slog.String("status", input.Status))
	result, err := s.inner.Transition(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to transition order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Order.Entity.Status)
	s.reportEffects(ctx, span, input.OrderID, result.Effects)
	s.logInfo(ctx, "order transitioned", slog.String("order.id", input.OrderID), slog.String("status", string(result.Order.Entity.Status)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, input types.ListOrdersInput) (*types.OrderList, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List",
		trace.WithAttributes(attribute.Int("page", input.Page), attribute.Int("limit", input.Limit)))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Total))
	return result, nil
}

func (s *Service) Track(ctx context.Context, input types.TrackInput) (*types.TrackingView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Track", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.Track(ctx, input)
	s.metrics.recordTrack(ctx, err == nil)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to track order", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) Summary(ctx context.Context) (*types.DashboardSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Summary")
	defer span.End()

	result, err := s.inner.Summary(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build dashboard summary")
	}
	return result, nil
}

func (s *Service) FindLineItem(ctx context.Context, orderID, productID string) (*domain.LineItem, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindLineItem",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.FindLineItem(ctx, orderID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find line item", slog.String("order.id", orderID))
	}
	return result, nil
}

// reportEffects logs each failed effect at warn level; the operation itself already succeeded.
func (s *Service) reportEffects(ctx context.Context, span trace.Span, orderID string, report effects.Report) {
	for _, failure := range report.Failures() {
		span.AddEvent("effect.failed", trace.WithAttributes(
			attribute.String("effect", failure.Effect), attribute.String("error", failure.Error)))
		s.metrics.recordEffectFailure(ctx, failure.Effect)
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "order side effect failed",
				slog.String("order.id", orderID), slog.String("effect", failure.Effect), slog.String("error", failure.Error))
		}
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	transitions    metric.Int64Counter
	trackLookups   metric.Int64Counter
	effectFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders persisted"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	trackLookups, _ := m.Int64Counter("orders.service.track_lookups", metric.WithDescription("Number of public tracking lookups"))
	effectFailures, _ := m.Int64Counter("orders.service.effect_failures", metric.WithDescription("Number of failed best-effort side effects"))
	return serviceMetrics{ordersPlaced: ordersPlaced, transitions: transitions, trackLookups: trackLookups, effectFailures: effectFailures}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordTrack(ctx context.Context, found bool) {
	if m.trackLookups != nil {
		m.trackLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("found", found)))
	}
}

func (m serviceMetrics) recordEffectFailure(ctx context.Context, effect string) {
	if m.effectFailures != nil {
		m.effectFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("effect", effect)))
	}
}

var _ ports.Service = (*Service)(nil)
