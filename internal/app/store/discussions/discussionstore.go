// internal/app/store/discussions/discussionstore.go
package discussionstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrAlreadyReplied   = errors.New("this question already has a reply")
	ErrQuestionNotFound = errors.New("question not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_discussions")}
}

// PostQuestion inserts a top-level question on an event.
func (s *Store) PostQuestion(ctx context.Context, entry models.DiscussionEntry) (models.DiscussionEntry, error) {
	entry.ID = primitive.NewObjectID()
	entry.IsAdminReply = false
	entry.ParentID = nil
	entry.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, entry)
	if err != nil {
		return models.DiscussionEntry{}, err
	}
	return entry, nil
}

// PostReply inserts the club admin's reply to a question. A partial unique
// index on parent_id allows at most one reply per question; a second reply
// (including a concurrent one) surfaces as ErrAlreadyReplied.
func (s *Store) PostReply(ctx context.Context, parentID primitive.ObjectID, entry models.DiscussionEntry) (models.DiscussionEntry, error) {
	// The parent must exist and be a question, not a reply.
	err := s.c.FindOne(ctx, bson.M{
		"_id":            parentID,
		"is_admin_reply": false,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return models.DiscussionEntry{}, ErrQuestionNotFound
	}
	if err != nil {
		return models.DiscussionEntry{}, err
	}

	entry.ID = primitive.NewObjectID()
	entry.IsAdminReply = true
	entry.ParentID = &parentID
	entry.CreatedAt = time.Now().UTC()
	_, err = s.c.InsertOne(ctx, entry)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.DiscussionEntry{}, ErrAlreadyReplied
		}
		return models.DiscussionEntry{}, err
	}
	return entry, nil
}

// GetQuestion loads one top-level question by id.
func (s *Store) GetQuestion(ctx context.Context, id primitive.ObjectID) (models.DiscussionEntry, error) {
	var entry models.DiscussionEntry
	err := s.c.FindOne(ctx, bson.M{"_id": id, "is_admin_reply": false}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return models.DiscussionEntry{}, ErrQuestionNotFound
	}
	if err != nil {
		return models.DiscussionEntry{}, err
	}
	return entry, nil
}

// Threads returns an event's discussion as question/reply pairs, newest
// question first. Replies whose question has vanished are dropped.
func (s *Store) Threads(ctx context.Context, eventID primitive.ObjectID) ([]models.DiscussionThread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.DiscussionEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}

	threads := make([]models.DiscussionThread, 0)
	index := map[primitive.ObjectID]int{}
	for _, e := range entries {
		if !e.IsAdminReply {
			index[e.ID] = len(threads)
			threads = append(threads, models.DiscussionThread{Question: e})
		}
	}
	for _, e := range entries {
		if e.IsAdminReply && e.ParentID != nil {
			if i, ok := index[*e.ParentID]; ok {
				reply := e
				threads[i].Reply = &reply
			}
		}
	}
	return threads, nil
}

// DeleteByEvent removes every discussion entry for an event, as part of the
// event-delete cascade.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
