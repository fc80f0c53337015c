package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/busdepo/marketplace-api/internal/models"
)

// MongoSpareCollection implements SpareCollection for MongoDB.
type MongoSpareCollection struct {
	Collection *mongo.Collection
}

// NewMongoSpareCollection wraps the spares collection.
func NewMongoSpareCollection(db *mongo.Database) *MongoSpareCollection {
	return &MongoSpareCollection{Collection: db.Collection(SparesCollection)}
}

// InsertSpare inserts a spare-part listing. The caller assigns the ID.
func (c *MongoSpareCollection) InsertSpare(ctx context.Context, spare models.Spare) error {
	now := time.Now()
	if spare.CreatedAt.IsZero() {
		spare.CreatedAt = now
	}
	if spare.UpdatedAt.IsZero() {
		spare.UpdatedAt = now
	}
	_, err := c.Collection.InsertOne(ctx, spare)
	return err
}

// FindSpareByID finds a spare-part listing by its ID.
func (c *MongoSpareCollection) FindSpareByID(ctx context.Context, id string) (*models.Spare, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var spare models.Spare
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&spare)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &spare, nil
}

// FindSpares queries spare-part listings matching filter, newest first.
func (c *MongoSpareCollection) FindSpares(ctx context.Context, filter bson.M, page Page) ([]models.Spare, error) {
	cursor, err := c.Collection.Find(ctx, filter, page.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	spares := []models.Spare{}
	if err := cursor.All(ctx, &spares); err != nil {
		return nil, err
	}
	return spares, nil
}

// CountSpares counts spare-part listings matching filter.
func (c *MongoSpareCollection) CountSpares(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}

// UpdateSpareFields applies a partial update and returns the updated
// listing.
func (c *MongoSpareCollection) UpdateSpareFields(ctx context.Context, id string, fields bson.M) (*models.Spare, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var spare models.Spare
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}, opts).Decode(&spare)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &spare, nil
}

// DeleteSpare deletes a spare-part listing by its ID.
func (c *MongoSpareCollection) DeleteSpare(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MakeCounts groups spare-part listings by make and returns counts in
// descending order.
func (c *MongoSpareCollection) MakeCounts(ctx context.Context) ([]models.MakeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$make", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.MakeCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// DistinctLocations returns the distinct location values across all
// spare-part listings.
func (c *MongoSpareCollection) DistinctLocations(ctx context.Context) ([]string, error) {
	values, err := c.Collection.Distinct(ctx, "location", bson.M{})
	if err != nil {
		return nil, err
	}

	locations := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			locations = append(locations, s)
		}
	}
	return locations, nil
}
