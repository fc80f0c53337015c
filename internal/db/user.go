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

// credentialProjection strips password and token from read results.
var credentialProjection = bson.M{"password": 0, "token": 0}

// MongoUserCollection implements UserCollection for MongoDB.
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// NewMongoUserCollection wraps the users collection.
func NewMongoUserCollection(db *mongo.Database) *MongoUserCollection {
	return &MongoUserCollection{Collection: db.Collection(UsersCollection)}
}

// InsertUser inserts a new user account. A duplicate mobile number,
// caught by the unique index, is reported as ErrDuplicate.
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
		user.UpdatedAt = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// FindUserByID finds a user by ID with credential fields projected out.
func (c *MongoUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetProjection(credentialProjection)

	var user models.User
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByMobile finds a user by mobile number. Credentials are kept:
// the login path needs the stored password hash.
func (c *MongoUserCollection) FindUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUsers lists all users with credential fields projected out.
func (c *MongoUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(credentialProjection)

	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateToken stores the most recently issued token on the account.
func (c *MongoUserCollection) UpdateToken(ctx context.Context, id, token string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}},
	)
	return err
}
