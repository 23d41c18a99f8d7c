// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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

var (
	ErrDuplicateClub = errors.New("a club with this name already exists")
	ErrNotFound      = errors.New("club not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

func (s *Store) Create(ctx context.Context, club models.Club) (models.Club, error) {
	now := time.Now().UTC()
	club.ID = primitive.NewObjectID()
	club.NameCI = text.Fold(club.Name)
	club.CategoryCI = text.Fold(club.Category)
	club.FollowersCount = 0
	club.CreatedAt = now
	club.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, club)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateClub
		}
		return models.Club{}, err
	}
	return club, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Club, error) {
	var club models.Club
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.Club{}, ErrNotFound
	}
	if err != nil {
		return models.Club{}, err
	}
	return club, nil
}

// GetByIDs loads multiple clubs by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// Filter narrows List. The zero value matches every club.
type Filter struct {
	Category string // exact category, case-insensitive
	Search   string // substring of name or description, case-insensitive
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category_ci"] = text.Fold(f.Category)
	}
	if s := text.Fold(strings.TrimSpace(f.Search)); s != "" {
		pattern := regexp.QuoteMeta(s)
		q["$or"] = bson.A{
			bson.M{"name_ci": primitive.Regex{Pattern: pattern}},
			bson.M{"description": primitive.Regex{Pattern: pattern, Options: "i"}},
		}
	}
	return q
}

// List returns the clubs matching f, sorted by folded name. Category and
// text filters run inside the Mongo query, never over the full collection
// in memory.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Club, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// Update modifies a club's mutable fields and refreshes UpdatedAt.
// FollowersCount is deliberately not settable here; only IncFollowers and
// DecFollowers touch it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, club models.Club) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if club.Name != "" {
		set["name"] = club.Name
		set["name_ci"] = text.Fold(club.Name)
	}
	if club.Category != "" {
		set["category"] = club.Category
		set["category_ci"] = text.Fold(club.Category)
	}
	if club.Description != "" {
		set["description"] = club.Description
	}
	if club.ClubHead != "" {
		set["club_head"] = club.ClubHead
	}
	if club.Members != nil {
		set["members"] = club.Members
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateClub
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncFollowers bumps the denormalized follower count by one.
func (s *Store) IncFollowers(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"followers_count": 1}})
	return err
}

// DecFollowers decrements the denormalized follower count by one. The filter
// clamps at zero: if the counter has already drifted to zero the update
// matches nothing instead of going negative.
func (s *Store) DecFollowers(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "followers_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"followers_count": -1}})
	return err
}

// ExistsByNameCI checks if a club with the given case-insensitive name exists.
func (s *Store) ExistsByNameCI(ctx context.Context, nameCI string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": nameCI}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
