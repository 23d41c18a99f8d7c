package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. A club_admin account is a user variant
// bound to exactly one club via ClubID.
const (
	RoleUser      = "user"
	RoleClubAdmin = "club_admin"
)

// User represents students and club admin accounts.
//
// Email is stored normalized (trimmed, lowercased) and is the identity used
// by relationship records (follows, registrations, feedback, discussions).
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	PasswordHash string              `bson:"password_hash" json:"-"`
	Role         string              `bson:"role" json:"role"` // user | club_admin
	ClubID       *primitive.ObjectID `bson:"club_id,omitempty" json:"club_id,omitempty"`
	Department   string              `bson:"department,omitempty" json:"department,omitempty"`
	Year         string              `bson:"year,omitempty" json:"year,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
