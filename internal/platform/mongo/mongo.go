package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when the URI carries no database name.
const DefaultDatabase = "storefront"

// Connect dials MongoDB, verifies connectivity and returns the database handle plus a disconnect func.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("mongo URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client.Database(database), client.Disconnect, nil
}

// ConnectOrNil mirrors the postgres fallback: on failure it logs and returns nil with a no-op cleanup.
func ConnectOrNil(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if strings.TrimSpace(uri) == "" {
		if logger != nil {
			logger.Warn("MONGO_URI not set, falling back to in-memory repositories")
		}
		return nil, func() {}
	}
	db, disconnect, err := Connect(ctx, uri, database)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("database", db.Name()))
	}
	return db, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = disconnect(ctx)
	}
}
