// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Three of these indexes carry correctness weight, not just query speed:
the unique (user_email, club_id) index on user_follows, the unique
(event_id, user_email) indexes on event_registrations and event_feedback,
and the partial unique reply index on event_discussions. They are the
backstop that keeps concurrent duplicate writes out of the data.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureUserFollows(ctx, db); err != nil {
		problems = append(problems, "user_follows: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureEventRegistrations(ctx, db); err != nil {
		problems = append(problems, "event_registrations: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}
	if err := ensureEventFeedback(ctx, db); err != nil {
		problems = append(problems, "event_feedback: "+err.Error())
	}
	if err := ensureEventDiscussions(ctx, db); err != nil {
		problems = append(problems, "event_discussions: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
			cur.Close(ctx)
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				// An index with these keys appeared under a different name
				// between our List and CreateOne. Treat it as reusable.
				zap.L().Info("reusing existing index (post-conflict)",
					zap.String("collection", coll.Name()),
					zap.String("keys", desiredSig),
					zap.String("took", time.Since(start).String()))
				continue
			}
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				continue
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("created_name", created),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email is the user key throughout the directory; must be unique.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Club admin lookup: which user administers a club
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}},
			Options: options.Index().SetName("idx_users_club"),
		},
	})
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("clubs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate club names (case/diacritics folded via name_ci)
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_clubs_nameci"),
		},
		// Directory listing: category filter + name sort with stable tiebreak
		{
			Keys: bson.D{
				{Key: "category_ci", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_clubs_categoryci_nameci__id"),
		},
	})
}

func ensureUserFollows(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("user_follows")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one follow per (user, club). Concurrent double-follows hit
		// this index and lose; the toggle treats the duplicate as a no-op.
		{
			Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "club_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_follows_user_club"),
		},
		// Fan-out path: list all followers of a club
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "user_email", Value: 1}},
			Options: options.Index().SetName("idx_follows_club_user"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-club event lists (admin dashboard, club detail page)
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "event_date", Value: -1}},
			Options: options.Index().SetName("idx_events_club_date"),
		},
		// Directory listing sorted by date
		{
			Keys:    bson.D{{Key: "event_date", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_events_date__id"),
		},
		// Category filter
		{
			Keys:    bson.D{{Key: "category_ci", Value: 1}, {Key: "event_date", Value: -1}},
			Options: options.Index().SetName("idx_events_categoryci_date"),
		},
	})
}

func ensureEventRegistrations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("event_registrations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one registration per (event, user). Concurrent duplicate
		// registrations hit this index; the store maps the error to a
		// friendly already-registered result.
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "user_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_regs_event_user"),
		},
		// "My registrations" listing
		{
			Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "registered_at", Value: -1}},
			Options: options.Index().SetName("idx_regs_user_registered"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("announcements")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-club announcement feed, newest first
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_ann_club_created"),
		},
	})
}

func ensureEventFeedback(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("event_feedback")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One feedback document per (event, user); edits update in place
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "user_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_feedback_event_user"),
		},
	})
}

func ensureEventDiscussions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("event_discussions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Thread listing per event, oldest question first
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_disc_event_created"),
		},
		// At most one admin reply per question. Partial so top-level
		// questions (parent_id absent) never collide.
		{
			Keys: bson.D{{Key: "parent_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_disc_reply_per_question").
				SetPartialFilterExpression(bson.D{{Key: "is_admin_reply", Value: true}}),
		},
	})
}
