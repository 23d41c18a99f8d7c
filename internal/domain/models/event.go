package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Derived event status values (day granularity, UTC).
const (
	EventUpcoming = "upcoming"
	EventToday    = "today"
	EventPast     = "past"
)

// Event is published by a club admin. ClubName is a denormalized snapshot so
// listings don't need a join back to clubs.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	EventDate   time.Time          `bson:"event_date" json:"event_date"`
	Location    string             `bson:"location" json:"location"`
	Category    string             `bson:"category" json:"category"`
	CategoryCI  string             `bson:"category_ci" json:"-"`
	ClubID      primitive.ObjectID `bson:"club_id" json:"club_id"`
	ClubName    string             `bson:"club_name" json:"club_name"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StatusAt derives the event's status relative to now, comparing calendar
// days in UTC: same day is "today", earlier days are "past".
func (e Event) StatusAt(now time.Time) string {
	ed := e.EventDate.UTC().Truncate(24 * time.Hour)
	nd := now.UTC().Truncate(24 * time.Hour)
	switch {
	case ed.Equal(nd):
		return EventToday
	case ed.Before(nd):
		return EventPast
	default:
		return EventUpcoming
	}
}

// IsPastAt reports whether the event's day is strictly before now's day.
// Feedback is only accepted for past events.
func (e Event) IsPastAt(now time.Time) bool {
	return e.StatusAt(now) == EventPast
}
