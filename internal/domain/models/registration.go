package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration is the authoritative join between a user and an event they
// registered for. Exactly one document per (event_id, user_email); enforced
// by a unique index. The user profile fields are a snapshot taken at
// registration time, used for attendee listings and CSV export.
type Registration struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID        primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserEmail      string             `bson:"user_email" json:"user_email"`
	UserName       string             `bson:"user_name" json:"user_name"`
	UserDepartment string             `bson:"user_department,omitempty" json:"user_department,omitempty"`
	UserYear       string             `bson:"user_year,omitempty" json:"user_year,omitempty"`
	RegisteredAt   time.Time          `bson:"registered_at" json:"registered_at"`
}
