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

// MongoVehicleCollection implements VehicleCollection for MongoDB.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// NewMongoVehicleCollection wraps the vehicles collection.
func NewMongoVehicleCollection(db *mongo.Database) *MongoVehicleCollection {
	return &MongoVehicleCollection{Collection: db.Collection(VehiclesCollection)}
}

// InsertVehicle inserts a vehicle listing. The caller assigns the ID.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	now := time.Now()
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = now
	}
	if vehicle.UpdatedAt.IsZero() {
		vehicle.UpdatedAt = now
	}
	_, err := c.Collection.InsertOne(ctx, vehicle)
	return err
}

// FindVehicleByID finds a vehicle listing by its ID.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicles queries vehicle listings matching filter, newest first.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context, filter bson.M, page Page) ([]models.Vehicle, error) {
	cursor, err := c.Collection.Find(ctx, filter, page.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// CountVehicles counts vehicle listings matching filter.
func (c *MongoVehicleCollection) CountVehicles(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}

// UpdateVehicleFields applies a partial update and returns the updated
// listing.
func (c *MongoVehicleCollection) UpdateVehicleFields(ctx context.Context, id string, fields bson.M) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var vehicle models.Vehicle
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}, opts).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// DeleteVehicle deletes a vehicle listing by its ID.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
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

// MakeCounts groups listings by make, optionally pre-filtered by type,
// and returns counts in descending order.
func (c *MongoVehicleCollection) MakeCounts(ctx context.Context, vehicleType string) ([]models.MakeCount, error) {
	match := bson.M{}
	if vehicleType != "" {
		match["type"] = vehicleType
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
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

// DistinctLocations returns the distinct location values, optionally
// pre-filtered by type.
func (c *MongoVehicleCollection) DistinctLocations(ctx context.Context, vehicleType string) ([]string, error) {
	filter := bson.M{}
	if vehicleType != "" {
		filter["type"] = vehicleType
	}

	values, err := c.Collection.Distinct(ctx, "location", filter)
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
