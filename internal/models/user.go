package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a marketplace account. Password and Token are
// credential fields: they are never serialized and read queries project
// them out.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Mobile    string             `bson:"mobile" json:"mobile"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Token     string             `bson:"token,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,min=7"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims are the JWT claims attached to authenticated requests.
type Claims struct {
	UserID   string `json:"user_id"`
	FullName string `json:"fullName"`
	Exp      int64  `json:"exp"`
}
