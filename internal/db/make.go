package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/busdepo/marketplace-api/internal/models"
)

// MongoMakeCollection implements MakeCollection for MongoDB.
type MongoMakeCollection struct {
	Collection *mongo.Collection
}

// NewMongoMakeCollection wraps the vehiclemakes collection.
func NewMongoMakeCollection(db *mongo.Database) *MongoMakeCollection {
	return &MongoMakeCollection{Collection: db.Collection(MakesCollection)}
}

// ListMakes returns the full allow-list, sorted by name.
func (c *MongoMakeCollection) ListMakes(ctx context.Context) ([]models.VehicleMake, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	makes := []models.VehicleMake{}
	if err := cursor.All(ctx, &makes); err != nil {
		return nil, err
	}
	return makes, nil
}

// MakeExists reports whether name is on the allow-list.
func (c *MongoMakeCollection) MakeExists(ctx context.Context, name string) (bool, error) {
	count, err := c.Collection.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
