package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
)

const CollectionName = "activities"

var _ ports.Repository = (*Repository)(nil)

// Repository appends activity documents to MongoDB.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(ctx context.Context, db *mongo.Database) (*Repository, error) {
	if db == nil {
		return nil, errors.New("mongo activity repository not configured")
	}
	coll := db.Collection(CollectionName)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}); err != nil {
		return nil, err
	}
	return &Repository{coll: coll}, nil
}

type activityDocument struct {
	ID          string         `bson:"_id"`
	Type        string         `bson:"type"`
	Description string         `bson:"description,omitempty"`
	Metadata    map[string]any `bson:"metadata,omitempty"`
	User        string         `bson:"user,omitempty"`
	UserName    string         `bson:"userName,omitempty"`
	IPAddress   string         `bson:"ipAddress,omitempty"`
	UserAgent   string         `bson:"userAgent,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt"`
}

func (r *Repository) Append(ctx context.Context, record *domain.Record) error {
	if r == nil || r.coll == nil {
		return errors.New("mongo activity repository not configured")
	}
	if record == nil {
		return errors.New("activity is nil")
	}
	_, err := r.coll.InsertOne(ctx, activityDocument{
		ID:          record.ID,
		Type:        string(record.Type),
		Description: record.Description,
		Metadata:    record.Metadata,
		User:        record.Actor.UserID,
		UserName:    record.Actor.Name,
		IPAddress:   record.Actor.IPAddress,
		UserAgent:   record.Actor.UserAgent,
		CreatedAt:   record.CreatedAt.UTC().Truncate(time.Millisecond),
	})
	return err
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*domain.Record, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongo activity repository not configured")
	}
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Record, 0, len(docs))
	for _, doc := range docs {
		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		out = append(out, &domain.Record{
			ID:          doc.ID,
			Type:        domain.Type(doc.Type),
			Description: doc.Description,
			Metadata:    metadata,
			Actor: domain.Actor{
				UserID:    doc.User,
				Name:      doc.UserName,
				IPAddress: doc.IPAddress,
				UserAgent: doc.UserAgent,
			},
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}
