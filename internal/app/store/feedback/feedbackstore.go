// internal/app/store/feedback/feedbackstore.go
package feedbackstore

import (
	"context"
	"errors"
	"math"
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
	ErrAlreadySubmitted = errors.New("feedback already submitted for this event")
	ErrNotFound         = errors.New("feedback not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_feedback")}
}

// Create inserts one user's feedback for an event. The unique
// (event_id, user_email) index rejects a second submission; edits go
// through Update instead.
func (s *Store) Create(ctx context.Context, fb models.Feedback) (models.Feedback, error) {
	now := time.Now().UTC()
	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = now
	fb.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, fb)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Feedback{}, ErrAlreadySubmitted
		}
		return models.Feedback{}, err
	}
	return fb, nil
}

// Update changes the rating and comment of an existing feedback document.
// The user_email filter makes authorship part of the match: a non-author
// gets ErrNotFound rather than a modified document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, userEmail string, rating int, comment string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_email": userEmail},
		bson.M{"$set": bson.M{
			"rating":     rating,
			"comment":    comment,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a feedback document, again scoped to its author.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, userEmail string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_email": userEmail})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByEventAndUser returns the user's feedback for an event, if any.
func (s *Store) GetByEventAndUser(ctx context.Context, eventID primitive.ObjectID, userEmail string) (models.Feedback, error) {
	var fb models.Feedback
	err := s.c.FindOne(ctx, bson.M{"event_id": eventID, "user_email": userEmail}).Decode(&fb)
	if err == mongo.ErrNoDocuments {
		return models.Feedback{}, ErrNotFound
	}
	if err != nil {
		return models.Feedback{}, err
	}
	return fb, nil
}

// ListByEvent returns all feedback for an event, newest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var fbs []models.Feedback
	if err := cur.All(ctx, &fbs); err != nil {
		return nil, err
	}
	return fbs, nil
}

// Summary is the aggregate view of an event's ratings. Histogram maps each
// rating value 1..5 to the percentage of submissions with that rating; each
// bucket is rounded independently, so the percentages need not sum to 100.
type Summary struct {
	Count     int64       `json:"count"`
	Average   float64     `json:"average"`
	Histogram map[int]int `json:"histogram"`
}

// Summarize computes the rating summary for one event with a single
// aggregation pass over the feedback documents.
func (s *Store) Summarize(ctx context.Context, eventID primitive.ObjectID) (Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"event_id": eventID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Summary{}, err
	}
	defer cur.Close(ctx)

	var buckets []struct {
		Rating int   `bson:"_id"`
		Count  int64 `bson:"count"`
	}
	if err := cur.All(ctx, &buckets); err != nil {
		return Summary{}, err
	}

	summary := Summary{Histogram: map[int]int{}}
	for r := models.MinRating; r <= models.MaxRating; r++ {
		summary.Histogram[r] = 0
	}

	var ratingSum int64
	for _, b := range buckets {
		summary.Count += b.Count
		ratingSum += int64(b.Rating) * b.Count
	}
	if summary.Count == 0 {
		return summary, nil
	}

	summary.Average = float64(ratingSum) / float64(summary.Count)
	for _, b := range buckets {
		pct := float64(b.Count) / float64(summary.Count) * 100
		summary.Histogram[b.Rating] = int(math.Round(pct))
	}
	return summary, nil
}

// DeleteByEvent removes every feedback document for an event, as part of
// the event-delete cascade.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
