package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is posted by a club's admin and fanned out to followers by
// email on creation. Edits update content in place without re-notification.
type Announcement struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID   primitive.ObjectID `bson:"club_id" json:"club_id"`
	ClubName string             `bson:"club_name" json:"club_name"`
	Title    string             `bson:"title" json:"title"`
	Content  string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
