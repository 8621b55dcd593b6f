package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&reviewRecord{})
	}
	return repo
}

type reviewRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	ProductID string    `gorm:"column:product_id;index:idx_reviews_product_created"`
	OrderID   string    `gorm:"column:order_id;index"`
	Name      string    `gorm:"column:name"`
	Rating    int       `gorm:"column:rating"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_reviews_product_created"`
}

func (reviewRecord) TableName() string { return "reviews" }

func (r *Repository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if review == nil {
		return errors.New("review is nil")
	}
	rec := reviewRecord(*review)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []reviewRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Review, 0, len(records))
	for i := range records {
		review := domain.Review(records[i])
		out = append(out, &review)
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}
