package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord flattens the contact block into columns and keeps line items as JSON.
type orderRecord struct {
	ID                 string         `gorm:"primaryKey;column:id;type:varchar(64)"`
	Email              string         `gorm:"column:email;index:idx_orders_tracking"`
	FirstName          string         `gorm:"column:first_name"`
	LastName           string         `gorm:"column:last_name"`
	Address            string         `gorm:"column:address"`
	Apartment          string         `gorm:"column:apartment"`
	City               string         `gorm:"column:city"`
	State              string         `gorm:"column:state"`
	Zip                string         `gorm:"column:zip"`
	Phone              string         `gorm:"column:phone"`
	Country            string         `gorm:"column:country"`
	Items              []itemRecord   `gorm:"column:items;type:jsonb;serializer:json"`
	ProductIDs         pq.StringArray `gorm:"column:product_ids;type:text[]"`
	Total              float64        `gorm:"column:total;type:numeric(12,2)"`
	Shipping           float64        `gorm:"column:shipping;type:numeric(12,2)"`
	Tax                float64        `gorm:"column:tax;type:numeric(12,2)"`
	TransactionID      string         `gorm:"column:transaction_id;uniqueIndex"`
	Status             string         `gorm:"column:status;type:varchar(32);index"`
	CancellationReason string         `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time      `gorm:"column:created_at;index"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type itemRecord struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Create inserts a new order. A reused transaction id maps to ports.ErrDuplicateTransaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateTransaction
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id)
}

// FindByTransactionID fetches the order created for a payment reference.
func (r *Repository) FindByTransactionID(ctx context.Context, transactionID string) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "transaction_id = ?", transactionID)
}

// UpdateStatus writes status, reason and updated_at in a single statement.
func (r *Repository) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	reason := ""
	if change.Status == domain.StatusCancelled {
		reason = change.Reason
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(change.Status),
			"cancellation_reason": reason,
			"updated_at":          gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List returns a page of orders, newest first, with the overall count.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*types.OrderProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*types.OrderProjection, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toProjection())
	}
	return orders, total, nil
}

// FindForTracking matches the id together with the stored (lower-cased) email.
func (r *Repository) FindForTracking(ctx context.Context, id, email string) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ? AND email = ?", id, email)
}

// CountByStatus counts orders in status.
func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*types.OrderProjection, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:                 order.ID,
		Email:              order.Contact.Email,
		FirstName:          order.Contact.FirstName,
		LastName:           order.Contact.LastName,
		Address:            order.Contact.Address,
		Apartment:          order.Contact.Apartment,
		City:               order.Contact.City,
		State:              order.Contact.State,
		Zip:                order.Contact.Zip,
		Phone:              order.Contact.Phone,
		Country:            order.Contact.Country,
		ProductIDs:         pq.StringArray(order.ProductIDs()),
		Total:              order.Total,
		Shipping:           order.Shipping,
		Tax:                order.Tax,
		TransactionID:      order.TransactionID,
		Status:             string(order.Status),
		CancellationReason: order.CancellationReason,
	}
	rec.Items = make([]itemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		rec.Items = append(rec.Items, itemRecord{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
			Image:     item.Image,
		})
	}
	return rec
}

func (r orderRecord) toProjection() *types.OrderProjection {
	order := &domain.Order{
		ID: r.ID,
		Contact: domain.Contact{
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Address:   r.Address,
			Apartment: r.Apartment,
			City:      r.City,
			State:     r.State,
			Zip:       r.Zip,
			Phone:     r.Phone,
			Country:   r.Country,
		},
		Total:              r.Total,
		Shipping:           r.Shipping,
		Tax:                r.Tax,
		TransactionID:      r.TransactionID,
		Status:             domain.Status(r.Status),
		CancellationReason: r.CancellationReason,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
			Image:     item.Image,
		})
	}
	return types.NewOrderProjection(order, r.CreatedAt, r.UpdatedAt)
}
