package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClubMember is one entry in a club's member roster (display data only;
// roster members are not user accounts).
type ClubMember struct {
	Name     string `bson:"name" json:"name"`
	Position string `bson:"position" json:"position"`
}

// Club includes case/diacritic-insensitive fields for search.
//
// FollowersCount is a denormalized count of user_follows documents referencing
// this club. It is only ever adjusted with atomic $inc through the follow
// store; the follow document's existence, not this counter, is the source of
// truth for "is following".
type Club struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Category       string             `bson:"category" json:"category"`
	CategoryCI     string             `bson:"category_ci" json:"-"`
	Description    string             `bson:"description" json:"description"`
	FollowersCount int64              `bson:"followers_count" json:"followers_count"`
	AdminEmail     string             `bson:"admin_email" json:"admin_email"`
	ClubHead       string             `bson:"club_head" json:"club_head"`
	Members        []ClubMember       `bson:"members,omitempty" json:"members,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
