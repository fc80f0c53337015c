package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Spare represents a spare-part listing in the marketplace.
type Spare struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Make        string             `bson:"make" json:"make"`
	Model       string             `bson:"model,omitempty" json:"model,omitempty"`
	PartNumber  string             `bson:"partNumber" json:"partNumber"`
	Price       float64            `bson:"price" json:"price"`
	Location    string             `bson:"location" json:"location"`
	ImageURL    []string           `bson:"imageUrl" json:"imageUrl"`
	Condition   string             `bson:"condition,omitempty" json:"condition,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateSpareRequest is the payload for POST /spare/add.
type CreateSpareRequest struct {
	Title       string   `json:"title" validate:"required"`
	Make        string   `json:"make" validate:"required"`
	Model       string   `json:"model,omitempty"`
	PartNumber  string   `json:"partNumber" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"required"`
	Condition   string   `json:"condition" validate:"required"`
	Description string   `json:"description" validate:"required"`
	ImageURL    string   `json:"imageUrl" validate:"required"` // data-URI image
}

// UpdateSpareRequest is the payload for PUT /spare/{id}.
type UpdateSpareRequest struct {
	Title       *string     `json:"title,omitempty"`
	Make        *string     `json:"make,omitempty"`
	Model       *string     `json:"model,omitempty"`
	PartNumber  *string     `json:"partNumber,omitempty"`
	Price       *float64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location    *string     `json:"location,omitempty"`
	Condition   *string     `json:"condition,omitempty"`
	Description *string     `json:"description,omitempty"`
	ImageURL    *ImageField `json:"imageUrl,omitempty"`
}

// SpareSearchRequest is the payload for POST /spare/search.
type SpareSearchRequest struct {
	Make       string   `json:"make,omitempty"` // comma-separated list of acceptable makes
	PartNumber string   `json:"partNumber,omitempty"`
	Location   string   `json:"location,omitempty"`
	Condition  string   `json:"condition,omitempty"`
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
}
