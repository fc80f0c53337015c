package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/busdepo/marketplace-api/internal/config"
)

// Collection names.
const (
	VehiclesCollection = "vehicles"
	SparesCollection   = "spares"
	UsersCollection    = "users"
	MakesCollection    = "vehiclemakes"
)

// Connect connects to MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.Mongo) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the collections rely on. The unique
// mobile index backs the register flow: concurrent registrations of the
// same number cannot both insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users mobile index error: %w", err)
	}
	return nil
}
