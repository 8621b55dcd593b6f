package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid activity input")

const maxRecent = 50

// Service records and reads the storefront audit log.
type Service struct {
	repo  ports.Repository
	newID func() string
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Record validates the type and appends one entry. Storage failures are returned to the caller.
func (s *Service) Record(ctx context.Context, input types.RecordInput) (*domain.Record, error) {
	t, err := domain.ParseType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("type", err))
	}
	record, err := domain.NewRecord(s.newID(), t, input.Description, input.Metadata, input.Actor, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Recent lists the newest entries; limit is clamped to [1, 50].
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	return s.repo.Recent(ctx, limit)
}

var _ ports.Service = (*Service)(nil)
