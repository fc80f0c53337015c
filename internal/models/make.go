package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// VehicleMake is one entry of the allow-list of acceptable manufacturer
// names. Names are unique; create and update both validate against the
// list.
type VehicleMake struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
