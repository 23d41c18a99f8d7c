// internal/app/store/follows/followstore.go
package followstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/app/system/txn"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages user_follows documents and keeps the clubs collection's
// denormalized followers_count in step with them. Counter adjustments go
// through the clubs store, which owns the clamp semantics.
type Store struct {
	client  *mongo.Client
	follows *mongo.Collection
	clubs   *clubstore.Store
}

func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:  client,
		follows: db.Collection("user_follows"),
		clubs:   clubstore.New(db),
	}
}

// Toggle flips the follow state for (userEmail, club) and returns the new
// state: true when the user now follows the club.
//
// The follow document write and the followers_count adjustment run in one
// transaction where the deployment supports them, so a reader never sees the
// counter ahead of or behind the join documents. On standalone Mongo the two
// writes run without a transaction; the unique (user_email, club_id) index
// still keeps duplicate follows out, and the decrement is clamped at zero,
// so the worst case is a transiently stale counter.
func (s *Store) Toggle(ctx context.Context, userEmail, userName string, club models.Club) (bool, error) {
	var following bool
	err := txn.Run(ctx, s.client, func(ctx context.Context) error {
		err := s.follows.FindOne(ctx, bson.M{
			"user_email": userEmail,
			"club_id":    club.ID,
		}).Err()

		switch {
		case err == nil:
			res, err := s.follows.DeleteOne(ctx, bson.M{
				"user_email": userEmail,
				"club_id":    club.ID,
			})
			if err != nil {
				return err
			}
			if res.DeletedCount > 0 {
				if err := s.clubs.DecFollowers(ctx, club.ID); err != nil {
					return err
				}
			}
			following = false
			return nil

		case err == mongo.ErrNoDocuments:
			_, err := s.follows.InsertOne(ctx, models.Follow{
				ID:         primitive.NewObjectID(),
				UserEmail:  userEmail,
				UserName:   userName,
				ClubID:     club.ID,
				ClubName:   club.Name,
				FollowedAt: time.Now().UTC(),
			})
			if err != nil {
				// A concurrent request followed first; the unique index
				// rejected the duplicate. The desired end state holds.
				if wafflemongo.IsDup(err) {
					following = true
					return nil
				}
				return err
			}
			if err := s.clubs.IncFollowers(ctx, club.ID); err != nil {
				return err
			}
			following = true
			return nil

		default:
			return err
		}
	})
	return following, err
}

// IsFollowing reports whether the user currently follows the club. The
// follow document, not the counter, is the source of truth.
func (s *Store) IsFollowing(ctx context.Context, userEmail string, clubID primitive.ObjectID) (bool, error) {
	err := s.follows.FindOne(ctx, bson.M{
		"user_email": userEmail,
		"club_id":    clubID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByClub returns every follow record for one club, used by the
// notification fan-out.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Follow, error) {
	cur, err := s.follows.Find(ctx, bson.M{"club_id": clubID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var follows []models.Follow
	if err := cur.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// ListByUser returns the clubs a user follows, most recent first.
func (s *Store) ListByUser(ctx context.Context, userEmail string) ([]models.Follow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "followed_at", Value: -1}})
	cur, err := s.follows.Find(ctx, bson.M{"user_email": userEmail}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var follows []models.Follow
	if err := cur.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// ClubIDsByUser returns just the club IDs a user follows.
func (s *Store) ClubIDsByUser(ctx context.Context, userEmail string) ([]primitive.ObjectID, error) {
	follows, err := s.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.ClubID)
	}
	return ids, nil
}

// CountByClub counts the follow documents for a club. Used by tests to check
// the denormalized counter against the truth.
func (s *Store) CountByClub(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	return s.follows.CountDocuments(ctx, bson.M{"club_id": clubID})
}
