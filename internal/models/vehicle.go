package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing types accepted by the marketplace.
const (
	TypeBus      = "bus"
	TypeBusSpare = "bus-spare"
)

// Listing statuses. Status is an open set; these are the values the
// backend itself assigns or filters on.
const (
	StatusActive = "active"
	StatusSold   = "sold"
)

// FuelType enumerates the accepted fuel types for a vehicle listing.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelCNG      FuelType = "CNG"
	FuelDefault  FuelType = "fuel"
)

// IsValidFuelType checks if a fuel type is one of the accepted values.
func IsValidFuelType(ft FuelType) bool {
	switch ft {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelCNG, FuelDefault:
		return true
	default:
		return false
	}
}

// IsValidVehicleType checks if a listing type is accepted.
func IsValidVehicleType(t string) bool {
	return t == TypeBus || t == TypeBusSpare
}

// Vehicle represents a bus listing in the marketplace.
type Vehicle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Make              string             `bson:"make" json:"make"`
	Model             string             `bson:"model" json:"model"`
	Price             float64            `bson:"price" json:"price"`
	Location          string             `bson:"location" json:"location"`
	Status            string             `bson:"status" json:"status"`
	Type              string             `bson:"type" json:"type"` // "bus" or "bus-spare"
	ImageURL          []string           `bson:"imageUrl" json:"imageUrl"`
	PartNumber        string             `bson:"partNumber,omitempty" json:"partNumber,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	DistanceTraveled  *float64           `bson:"distance_traveled,omitempty" json:"distance_traveled,omitempty"`
	FuelEfficiency    *float64           `bson:"fuel_efficiency,omitempty" json:"fuel_efficiency,omitempty"`
	FuelType          FuelType           `bson:"fuel_type" json:"fuel_type"`
	SeatingCapacity   *int               `bson:"seating_capacity,omitempty" json:"seating_capacity,omitempty"`
	YearManufacture   *int               `bson:"year_manufacture,omitempty" json:"year_manufacture,omitempty"`
	MaintenanceRecord string             `bson:"maintenance_record,omitempty" json:"maintenance_record,omitempty"`
	Upgrades          string             `bson:"upgrades,omitempty" json:"upgrades,omitempty"`
	Condition         string             `bson:"condition,omitempty" json:"condition,omitempty"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateVehicleRequest is the payload for POST /vehicle/add.
type CreateVehicleRequest struct {
	Title             string   `json:"title" validate:"required"`
	Make              string   `json:"make" validate:"required"`
	Model             string   `json:"model" validate:"required"`
	Price             *float64 `json:"price" validate:"required,gte=0"`
	Location          string   `json:"location" validate:"required"`
	Type              string   `json:"type" validate:"required,oneof=bus bus-spare"`
	Status            string   `json:"status,omitempty"`
	ImageURL          string   `json:"imageUrl" validate:"required"` // data-URI image
	PartNumber        string   `json:"partNumber,omitempty"`
	DistanceTraveled  *float64 `json:"distance_traveled,omitempty"`
	FuelEfficiency    *float64 `json:"fuel_efficiency,omitempty"`
	FuelType          string   `json:"fuel_type,omitempty"`
	SeatingCapacity   *int     `json:"seating_capacity,omitempty"`
	YearManufacture   *int     `json:"year_manufacture,omitempty"`
	MaintenanceRecord string   `json:"maintenance_record,omitempty"`
	Upgrades          string   `json:"upgrades,omitempty"`
	Condition         string   `json:"condition,omitempty"`
	Description       string   `json:"description,omitempty"`
}

// UpdateVehicleRequest is the payload for PUT /vehicle/{id}. All fields
// are optional; only supplied fields are written. A data-URI ImageURL
// replaces the stored image set; the echoed-back array form is ignored.
type UpdateVehicleRequest struct {
	Title             *string     `json:"title,omitempty"`
	Make              *string     `json:"make,omitempty"`
	Model             *string     `json:"model,omitempty"`
	Price             *float64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location          *string     `json:"location,omitempty"`
	Status            *string     `json:"status,omitempty"`
	ImageURL          *ImageField `json:"imageUrl,omitempty"`
	PartNumber        *string     `json:"partNumber,omitempty"`
	DistanceTraveled  *float64    `json:"distance_traveled,omitempty"`
	FuelEfficiency    *float64    `json:"fuel_efficiency,omitempty"`
	FuelType          *string     `json:"fuel_type,omitempty"`
	SeatingCapacity   *int        `json:"seating_capacity,omitempty"`
	YearManufacture   *int        `json:"year_manufacture,omitempty"`
	MaintenanceRecord *string     `json:"maintenance_record,omitempty"`
	Upgrades          *string     `json:"upgrades,omitempty"`
	Condition         *string     `json:"condition,omitempty"`
	Description       *string     `json:"description,omitempty"`
}

// VehicleSearchRequest is the payload for POST /vehicle/search. Every
// field is optional; an empty body matches all listings.
type VehicleSearchRequest struct {
	Status      string   `json:"status,omitempty"` // literal "All" disables the status filter
	Type        string   `json:"type,omitempty"`
	Make        string   `json:"make,omitempty"` // comma-separated list of acceptable makes
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	MinYear     *int     `json:"minYear,omitempty"`
	MaxYear     *int     `json:"maxYear,omitempty"`
	MinDistance *float64 `json:"minDistance,omitempty"`
	MaxDistance *float64 `json:"maxDistance,omitempty"`
	PartNumber  string   `json:"partNumber,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Location    string   `json:"location,omitempty"` // comma-separated list of state names
}

// MakeCount is one row of the make-counts aggregate.
type MakeCount struct {
	Make  string `bson:"_id" json:"make"`
	Count int64  `bson:"count" json:"count"`
}
