package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// CollectionName is the MongoDB collection that stores order documents.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders as MongoDB documents.
type Repository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewRepository wires the repository and ensures its indexes exist.
func NewRepository(ctx context.Context, db *mongo.Database) (*Repository, error) {
	if db == nil {
		return nil, errors.New("mongo order repository not configured")
	}
	repo := &Repository{coll: db.Collection(CollectionName), now: time.Now}
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

type orderDocument struct {
	ID                 string         `bson:"_id"`
	FormData           contactDoc     `bson:"formData"`
	Items              []itemDocument `bson:"items"`
	Total              float64        `bson:"total"`
	Shipping           float64        `bson:"shipping"`
	Tax                float64        `bson:"tax"`
	TransactionID      string         `bson:"transactionId"`
	Status             string         `bson:"status"`
	CancellationReason string         `bson:"cancellationReason,omitempty"`
	CreatedAt          time.Time      `bson:"createdAt"`
	UpdatedAt          time.Time      `bson:"updatedAt"`
}

type contactDoc struct {
	Email     string `bson:"email"`
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
	Address   string `bson:"address"`
	Apartment string `bson:"apartment,omitempty"`
	City      string `bson:"city"`
	State     string `bson:"state"`
	Zip       string `bson:"zip"`
	Phone     string `bson:"phone"`
	Country   string `bson:"country"`
}

type itemDocument struct {
	ID        string  `bson:"id"`
	ProductID string  `bson:"productId"`
	Name      string  `bson:"name"`
	Price     float64 `bson:"price"`
	Quantity  int     `bson:"quantity"`
	Color     string  `bson:"color,omitempty"`
	Size      string  `bson:"size,omitempty"`
	Image     string  `bson:"image,omitempty"`
}

// Create inserts a new order document.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	doc := toDocument(order)
	doc.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	doc.UpdatedAt = doc.CreatedAt
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateTransaction
		}
		return nil, err
	}
	return doc.toProjection(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*types.OrderProjection, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByTransactionID fetches the order created for a payment reference.
func (r *Repository) FindByTransactionID(ctx context.Context, transactionID string) (*types.OrderProjection, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"transactionId": transactionID})
}

// UpdateStatus sets status and reason atomically and returns the updated document.
func (r *Repository) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*types.OrderProjection, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	update := bson.M{
		"$set": bson.M{
			"status":    string(change.Status),
			"updatedAt": r.now().UTC().Truncate(time.Millisecond),
		},
	}
	if change.Status == domain.StatusCancelled {
		update["$set"].(bson.M)["cancellationReason"] = change.Reason
	} else {
		update["$unset"] = bson.M{"cancellationReason": ""}
	}
	var doc orderDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toProjection(), nil
}

// List returns a page of orders, newest first, with the overall count.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*types.OrderProjection, int64, error) {
	if err := r.ensureColl(); err != nil {
		return nil, 0, err
	}
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	orders := make([]*types.OrderProjection, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toProjection())
	}
	return orders, total, nil
}

// FindForTracking matches the id together with the stored email.
func (r *Repository) FindForTracking(ctx context.Context, id, email string) (*types.OrderProjection, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": id, "formData.email": email})
}

// CountByStatus counts orders in status.
func (r *Repository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureColl(); err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*types.OrderProjection, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toProjection(), nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDocument(order *domain.Order) orderDocument {
	doc := orderDocument{
		ID: order.ID,
		FormData: contactDoc{
			Email:     order.Contact.Email,
			FirstName: order.Contact.FirstName,
			LastName:  order.Contact.LastName,
			Address:   order.Contact.Address,
			Apartment: order.Contact.Apartment,
			City:      order.Contact.City,
			State:     order.Contact.State,
			Zip:       order.Contact.Zip,
			Phone:     order.Contact.Phone,
			Country:   order.Contact.Country,
		},
		Total:              order.Total,
		Shipping:           order.Shipping,
		Tax:                order.Tax,
		TransactionID:      order.TransactionID,
		Status:             string(order.Status),
		CancellationReason: order.CancellationReason,
		Items:              make([]itemDocument, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, itemDocument(item))
	}
	return doc
}

func (d orderDocument) toProjection() *types.OrderProjection {
	order := &domain.Order{
		ID:                 d.ID,
		Contact:            domain.Contact(d.FormData),
		Total:              d.Total,
		Shipping:           d.Shipping,
		Tax:                d.Tax,
		TransactionID:      d.TransactionID,
		Status:             domain.Status(d.Status),
		CancellationReason: d.CancellationReason,
	}
	for _, item := range d.Items {
		order.Items = append(order.Items, domain.LineItem(item))
	}
	return types.NewOrderProjection(order, d.CreatedAt, d.UpdatedAt)
}
