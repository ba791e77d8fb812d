package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is provisioned automatically on the first OAuth callback and never
// mutated by this service afterwards.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}
