package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"pdfchat/internal/config"
)

var mongoConnect = mongo.Connect

// NewMongo connects to MongoDB, verifies the primary is reachable and returns the configured database.
// The caller owns the client and must Disconnect it via db.Client().
func NewMongo(ctx context.Context, c config.DatastoreConfig) (*mongo.Database, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("invalid datastore config: DATABASE_URL is required")
	}
	if c.Name == "" {
		return nil, fmt.Errorf("invalid datastore config: DATABASE_NAME is required")
	}

	timeout := time.Duration(c.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client, err := mongoConnect(options.Client().
		ApplyURI(c.URL).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client.Database(c.Name), nil
}
