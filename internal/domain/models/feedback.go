package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for event feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is one attendee's rating of a past event. At most one document
// per (event_id, user_email); enforced by a unique index. Only the authoring
// user may edit or delete it.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserEmail string             `bson:"user_email" json:"user_email"`
	UserName  string             `bson:"user_name" json:"user_name"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidRating reports whether r is within the accepted 1..5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
