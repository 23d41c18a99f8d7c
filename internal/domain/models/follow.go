package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is the authoritative join between a user and a club they follow.
// Exactly one document per (user_email, club_id); enforced by a unique index.
// ClubName is a snapshot taken at follow time for notification payloads.
type Follow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail  string             `bson:"user_email" json:"user_email"`
	UserName   string             `bson:"user_name" json:"user_name"`
	ClubID     primitive.ObjectID `bson:"club_id" json:"club_id"`
	ClubName   string             `bson:"club_name" json:"club_name"`
	FollowedAt time.Time          `bson:"followed_at" json:"followed_at"`
}
