// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("event not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func (s *Store) Create(ctx context.Context, event models.Event) (models.Event, error) {
	now := time.Now().UTC()
	event.ID = primitive.NewObjectID()
	event.NameCI = text.Fold(event.Name)
	event.CategoryCI = text.Fold(event.Category)
	event.CreatedAt = now
	event.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, event)
	if err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var event models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// Filter narrows List. The zero value matches every event. Status is not a
// filter here: it is derived from event_date relative to the current day, so
// the handler computes it after the query.
type Filter struct {
	ClubID   primitive.ObjectID
	Category string // exact category, case-insensitive
	Search   string // substring of the event name, case-insensitive
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if !f.ClubID.IsZero() {
		q["club_id"] = f.ClubID
	}
	if f.Category != "" {
		q["category_ci"] = text.Fold(f.Category)
	}
	if s := text.Fold(strings.TrimSpace(f.Search)); s != "" {
		q["name_ci"] = primitive.Regex{Pattern: regexp.QuoteMeta(s)}
	}
	return q
}

// List returns the events matching f, sorted by event date, latest first.
// Category and name filters run inside the Mongo query.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: -1}, {Key: "_id", Value: 1}})
	return s.find(ctx, f.query(), opts)
}

// ListByClub returns a club's events, most recent date first.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Event, error) {
	return s.List(ctx, Filter{ClubID: clubID})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update modifies an event's mutable fields and refreshes UpdatedAt. The
// owning club is never changed after publication.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, event models.Event) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if event.Name != "" {
		set["name"] = event.Name
		set["name_ci"] = text.Fold(event.Name)
	}
	if event.Description != "" {
		set["description"] = event.Description
	}
	if !event.EventDate.IsZero() {
		set["event_date"] = event.EventDate
	}
	if event.Location != "" {
		set["location"] = event.Location
	}
	if event.Category != "" {
		set["category"] = event.Category
		set["category_ci"] = text.Fold(event.Category)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event by ID. Returns the number of documents deleted
// (0 or 1). Dependent registrations, feedback, and discussion entries are
// removed by the caller's cascade.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
