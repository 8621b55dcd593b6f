package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

const (
	defaultPage       = 1
	defaultLimit      = 8
	maxLimit          = 100
	recentOrdersLimit = 4
)

// Service orchestrates the order lifecycle: creation, transitions and lookups.
type Service struct {
	repo     ports.Repository
	notifier ports.Notifier
	activity ports.ActivityRecorder
	events   ports.EventPublisher
	newID    func() string
	now      func() time.Time
}

// Option configures optional collaborators.
type Option func(*Service)

// WithNotifier wires the email notifier.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithActivityRecorder wires the audit log.
func WithActivityRecorder(r ports.ActivityRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.activity = r
		}
	}
}

// WithEventPublisher wires the domain event sink.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithIDGenerator overrides order id generation, useful for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: ports.NoopNotifier,
		activity: ports.NoopActivityRecorder,
		events:   ports.NoopEventPublisher,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder persists the order and then runs its best-effort effects.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error) {
	saved, err := s.PersistOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	report := s.completePlacement(ctx, saved.Entity, input.Actor)
	return &types.PlacementResult{Order: saved, Effects: report}, nil
}

// PersistOrder validates every field before touching storage, then stores a pending order.
// With a preassigned OrderID the call is idempotent: when the transaction id is already
// held by that same order, the stored order is returned instead of ErrDuplicateTransaction.
func (s *Service) PersistOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	id := strings.TrimSpace(input.OrderID)
	if id == "" {
		id = s.newID()
	}
	order, err := input.Build(id)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err == nil {
		return saved, nil
	}
	if errors.Is(err, ports.ErrDuplicateTransaction) && input.OrderID != "" {
		existing, findErr := s.repo.FindByTransactionID(ctx, order.TransactionID)
		if findErr == nil && existing.Entity.ID == order.ID {
			return existing, nil
		}
	}
	return nil, mapError(err)
}

// CompletePlacement runs the creation effects for an order that is already stored.
func (s *Service) CompletePlacement(ctx context.Context, input types.CompletePlacementInput) (effects.Report, error) {
	saved, err := s.repo.GetByID(ctx, strings.TrimSpace(input.OrderID))
	if err != nil {
		return nil, mapError(err)
	}
	return s.completePlacement(ctx, saved.Entity, input.Actor), nil
}

func (s *Service) completePlacement(ctx context.Context, order *domain.Order, actor types.Actor) effects.Report {
	var report effects.Report
	report.Add(effects.Attempt(ctx, types.EffectActivity, func(ctx context.Context) error {
		return s.activity.OrderCreated(ctx, order, actor)
	}))
	report.Add(effects.Attempt(ctx, types.EffectAdminAlert, func(ctx context.Context) error {
		return s.notifier.OrderPlaced(ctx, order)
	}))
	report.Add(effects.Attempt(ctx, types.EffectEvent, func(ctx context.Context) error {
		return s.events.Publish(ctx, domain.NewOrderCreated(order, s.now()))
	}))
	return report
}

// Transition changes an order's status. Effects after the write never fail the call.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error) {
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, mapError(validation.Field("id", errors.New("order id is required")))
	}
	change, err := domain.NewStatusChange(input.Status, input.Reason)
	if err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.UpdateStatus(ctx, orderID, change)
	if err != nil {
		return nil, mapError(err)
	}

	var report effects.Report
	report.Add(effects.Attempt(ctx, types.EffectCustomerNotification, func(ctx context.Context) error {
		return s.notifier.StatusChanged(ctx, updated.Entity)
	}))
	report.Add(effects.Attempt(ctx, types.EffectEvent, func(ctx context.Context) error {
		return s.events.Publish(ctx, domain.NewOrderStatusChanged(updated.Entity, s.now()))
	}))
	return &types.TransitionResult{Order: updated, Effects: report}, nil
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*types.OrderProjection, error) {
	saved, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// List pages through orders newest first, or resolves a single id when Query is set.
func (s *Service) List(ctx context.Context, input types.ListOrdersInput) (*types.OrderList, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	result := &types.OrderList{Page: page, Limit: limit, Orders: []*types.OrderProjection{}}

	if query := strings.TrimSpace(input.Query); query != "" {
		saved, err := s.repo.GetByID(ctx, query)
		switch {
		case errors.Is(err, ports.ErrNotFound):
		case err != nil:
			return nil, mapError(err)
		default:
			result.Orders = append(result.Orders, saved)
		}
		result.Total = int64(len(result.Orders))
		result.TotalPages = totalPages(result.Total, limit)
		return result, nil
	}

	orders, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, mapError(err)
	}
	if orders != nil {
		result.Orders = orders
	}
	result.Total = total
	result.TotalPages = totalPages(total, limit)
	return result, nil
}

// Track resolves the public status view for an id and email pair.
// Knowing both values is the only credential required.
func (s *Service) Track(ctx context.Context, input types.TrackInput) (*types.TrackingView, error) {
	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.FindForTracking(ctx, input.OrderID, input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.TrackingView{
		OrderID:     saved.Entity.ID,
		Status:      saved.Entity.Status,
		LastUpdated: saved.Metadata.UpdatedAt,
		CreatedAt:   saved.Metadata.CreatedAt,
	}, nil
}

// Summary returns the counters and recent orders shown on the admin dashboard.
func (s *Service) Summary(ctx context.Context) (*types.DashboardSummary, error) {
	pending, err := s.repo.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, mapError(err)
	}
	delivered, err := s.repo.CountByStatus(ctx, domain.StatusDelivered)
	if err != nil {
		return nil, mapError(err)
	}
	recent, _, err := s.repo.List(ctx, 0, recentOrdersLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.DashboardSummary{PendingOrders: pending, DeliveredOrders: delivered, RecentOrders: recent}, nil
}

// FindLineItem returns the item for productID inside orderID.
func (s *Service) FindLineItem(ctx context.Context, orderID, productID string) (*domain.LineItem, error) {
	saved, err := s.repo.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return nil, mapError(err)
	}
	productID = strings.TrimSpace(productID)
	item, ok := saved.Entity.ItemForProduct(productID)
	if !ok || productID == "" {
		return nil, ports.ErrItemNotFound
	}
	return &item, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

var _ ports.Service = (*Service)(nil)
