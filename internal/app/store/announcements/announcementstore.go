// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"
	"errors"
	"time"

	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("announcement not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, a)
	if err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error) {
	var a models.Announcement
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Announcement{}, ErrNotFound
	}
	if err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// ListByClub returns a club's announcements, newest first.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Announcement, error) {
	return s.find(ctx, bson.M{"club_id": clubID})
}

// ListByClubs returns announcements across several clubs, newest first.
// Used for the feed of clubs a user follows.
func (s *Store) ListByClubs(ctx context.Context, clubIDs []primitive.ObjectID) ([]models.Announcement, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"club_id": bson.M{"$in": clubIDs}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var anns []models.Announcement
	if err := cur.All(ctx, &anns); err != nil {
		return nil, err
	}
	return anns, nil
}

// Update modifies title and content in place. Edits never re-notify
// followers; only Create triggers the fan-out, and the caller owns that.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, content string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if title != "" {
		set["title"] = title
	}
	if content != "" {
		set["content"] = content
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

// Delete removes an announcement by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
