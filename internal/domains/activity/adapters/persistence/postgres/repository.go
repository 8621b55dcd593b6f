package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository appends activity records to PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&activityRecord{})
	}
	return repo
}

type activityRecord struct {
	ID          string            `gorm:"primaryKey;column:id;type:varchar(64)"`
	Type        string            `gorm:"column:type;type:varchar(32);index"`
	Description string            `gorm:"column:description"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`
	UserID      string            `gorm:"column:user_id;index"`
	UserName    string            `gorm:"column:user_name"`
	IPAddress   string            `gorm:"column:ip_address"`
	UserAgent   string            `gorm:"column:user_agent"`
	CreatedAt   time.Time         `gorm:"column:created_at;index"`
}

func (activityRecord) TableName() string { return "activities" }

func (r *Repository) Append(ctx context.Context, record *domain.Record) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if record == nil {
		return errors.New("activity is nil")
	}
	rec := toRecord(record)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []activityRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Record, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres activity repository not configured")
	}
	return nil
}

func toRecord(record *domain.Record) activityRecord {
	return activityRecord{
		ID:          record.ID,
		Type:        string(record.Type),
		Description: record.Description,
		Metadata:    datatypes.JSONMap(record.Metadata),
		UserID:      record.Actor.UserID,
		UserName:    record.Actor.Name,
		IPAddress:   record.Actor.IPAddress,
		UserAgent:   record.Actor.UserAgent,
		CreatedAt:   record.CreatedAt,
	}
}

func (r activityRecord) toDomain() *domain.Record {
	metadata := map[string]any(r.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &domain.Record{
		ID:          r.ID,
		Type:        domain.Type(r.Type),
		Description: r.Description,
		Metadata:    metadata,
		Actor: domain.Actor{
			UserID:    r.UserID,
			Name:      r.UserName,
			IPAddress: r.IPAddress,
			UserAgent: r.UserAgent,
		},
		CreatedAt: r.CreatedAt,
	}
}
