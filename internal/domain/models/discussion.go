package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscussionEntry is a question asked on an event, or the admin's reply to
// one. A top-level question has ParentID nil and IsAdminReply false; a reply
// always has IsAdminReply true and a non-nil ParentID. At most one admin
// reply exists per parent question.
type DiscussionEntry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID      primitive.ObjectID  `bson:"event_id" json:"event_id"`
	UserEmail    string              `bson:"user_email" json:"user_email"`
	UserName     string              `bson:"user_name" json:"user_name"`
	Question     string              `bson:"question" json:"question"`
	IsAdminReply bool                `bson:"is_admin_reply" json:"is_admin_reply"`
	ParentID     *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}

// DiscussionThread pairs a top-level question with its reply (nil when the
// admin has not answered yet).
type DiscussionThread struct {
	Question DiscussionEntry  `json:"question"`
	Reply    *DiscussionEntry `json:"reply,omitempty"`
}
