// internal/app/store/registrations/registrationstore.go
package registrationstore

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
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered     = errors.New("not registered for this event")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_registrations")}
}

// Register inserts a registration. The unique (event_id, user_email) index
// makes this the idempotency point: a concurrent or repeated registration
// for the same pair surfaces as ErrAlreadyRegistered, never as a second
// document.
func (s *Store) Register(ctx context.Context, reg models.Registration) (models.Registration, error) {
	reg.ID = primitive.NewObjectID()
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, reg)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Registration{}, ErrAlreadyRegistered
		}
		return models.Registration{}, err
	}
	return reg, nil
}

// Unregister removes the user's registration for an event. Deleting a
// registration that does not exist returns ErrNotRegistered.
func (s *Store) Unregister(ctx context.Context, eventID primitive.ObjectID, userEmail string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"event_id":   eventID,
		"user_email": userEmail,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotRegistered
	}
	return nil
}

// Exists reports whether the user is registered for the event.
func (s *Store) Exists(ctx context.Context, eventID primitive.ObjectID, userEmail string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"event_id":   eventID,
		"user_email": userEmail,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByEvent returns an event's registrations in registration order, used
// for attendee listings and CSV export.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var regs []models.Registration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// ListByUser returns a user's registrations, most recent first.
func (s *Store) ListByUser(ctx context.Context, userEmail string) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_email": userEmail}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var regs []models.Registration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// CountByEvent computes the attendee count from the registration documents.
// The count is never cached on the event; it is derived on read.
func (s *Store) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"event_id": eventID})
}

// CountByEvents groups registration counts by event in one aggregation, so
// a listing page costs a single query instead of one count per event.
// Events with no registrations are simply absent from the result map.
func (s *Store) CountByEvents(ctx context.Context, eventIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"event_id": bson.M{"$in": eventIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$event_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		EventID primitive.ObjectID `bson:"_id"`
		Count   int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

// DeleteByEvent removes every registration for an event, as part of the
// event-delete cascade. Returns the number of documents removed.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
