package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, record *domain.Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.Record, error)
}
