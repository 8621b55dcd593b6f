package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid review input")

// Service stores reviews for purchased products.
type Service struct {
	repo     ports.Repository
	verifier ports.PurchaseVerifier
	alerter  ports.Alerter
	newID    func() string
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, verifier ports.PurchaseVerifier, alerter ports.Alerter, opts ...Option) *Service {
	s := &Service{repo: repo, verifier: verifier, alerter: alerter, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit validates the form, checks the purchase, saves the review and
// alerts the admin about negative ratings. The alert never fails the call.
func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*types.SubmitResult, error) {
	review, err := domain.NewReview(s.newID(), input.ProductID, input.OrderID, input.Name, input.Rating, input.Comment, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	productName, err := s.verifier.ProductName(ctx, review.OrderID, review.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	result := &types.SubmitResult{Review: review}
	if review.Negative() && s.alerter != nil {
		result.Effects.Add(effects.Attempt(ctx, types.EffectNegativeAlert, func(ctx context.Context) error {
			return s.alerter.NegativeReview(ctx, review, productName)
		}))
	}
	return result, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("productId", errors.New("productId is required")))
	}
	return s.repo.ListByProduct(ctx, productID)
}

var _ ports.Service = (*Service)(nil)
