package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
)

// Service exposes activity use-cases to adapters.
type Service interface {
	Record(ctx context.Context, input types.RecordInput) (*domain.Record, error)
	Recent(ctx context.Context, limit int) ([]*domain.Record, error)
}
