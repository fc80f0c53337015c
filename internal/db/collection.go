package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/busdepo/marketplace-api/internal/models"
)

// ErrNotFound is returned when a lookup, update or delete matches no
// document. Handlers translate it to a 404.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique index.
// Handlers translate it to a 409.
var ErrDuplicate = errors.New("record already exists")

// VehicleCollection defines the interface for vehicle listing operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicles(ctx context.Context, filter bson.M, page Page) ([]models.Vehicle, error)
	CountVehicles(ctx context.Context, filter bson.M) (int64, error)
	UpdateVehicleFields(ctx context.Context, id string, fields bson.M) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
	MakeCounts(ctx context.Context, vehicleType string) ([]models.MakeCount, error)
	DistinctLocations(ctx context.Context, vehicleType string) ([]string, error)
}

// SpareCollection defines the interface for spare-part listing operations.
type SpareCollection interface {
	InsertSpare(ctx context.Context, spare models.Spare) error
	FindSpareByID(ctx context.Context, id string) (*models.Spare, error)
	FindSpares(ctx context.Context, filter bson.M, page Page) ([]models.Spare, error)
	CountSpares(ctx context.Context, filter bson.M) (int64, error)
	UpdateSpareFields(ctx context.Context, id string, fields bson.M) (*models.Spare, error)
	DeleteSpare(ctx context.Context, id string) error
	MakeCounts(ctx context.Context) ([]models.MakeCount, error)
	DistinctLocations(ctx context.Context) ([]string, error)
}

// UserCollection defines the interface for user account operations.
// Read methods project credential fields out.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByMobile(ctx context.Context, mobile string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateToken(ctx context.Context, id, token string) error
}

// MakeCollection defines the interface for the manufacturer allow-list.
type MakeCollection interface {
	ListMakes(ctx context.Context) ([]models.VehicleMake, error)
	MakeExists(ctx context.Context, name string) (bool, error)
}
