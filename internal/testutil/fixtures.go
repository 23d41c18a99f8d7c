package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateClub creates a test club with the given name.
// Returns the created club with its generated ID.
func (f *Fixtures) CreateClub(ctx context.Context, name string) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Category:    "Technical",
		CategoryCI:  text.Fold("Technical"),
		Description: "Test club description",
		AdminEmail:  "admin@" + text.Fold(name) + ".test",
		ClubHead:    "Test Head",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("clubs").InsertOne(ctx, club)
	if err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}

	return club
}

// CreateUser creates a test student account.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createAccount(ctx, fullName, email, models.RoleUser, nil)
}

// CreateClubAdmin creates a test club admin account bound to the given club.
func (f *Fixtures) CreateClubAdmin(ctx context.Context, fullName, email string, clubID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.createAccount(ctx, fullName, email, models.RoleClubAdmin, &clubID)
}

func (f *Fixtures) createAccount(ctx context.Context, fullName, email, role string, clubID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		PasswordHash: "$2a$10$testhashnotusable",
		Role:         role,
		ClubID:       clubID,
		Department:   "Computer Science",
		Year:         "3",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateEvent creates a test event for the given club with the given date.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, club models.Club, eventDate time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test event description",
		EventDate:   eventDate,
		Location:    "Test Hall",
		Category:    "Workshop",
		CategoryCI:  text.Fold("Workshop"),
		ClubID:      club.ID,
		ClubName:    club.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("events").InsertOne(ctx, event)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// CreatePastEvent creates a test event dated two days ago.
func (f *Fixtures) CreatePastEvent(ctx context.Context, name string, club models.Club) models.Event {
	f.t.Helper()
	return f.CreateEvent(ctx, name, club, time.Now().UTC().AddDate(0, 0, -2))
}

// CreateUpcomingEvent creates a test event dated a week from now.
func (f *Fixtures) CreateUpcomingEvent(ctx context.Context, name string, club models.Club) models.Event {
	f.t.Helper()
	return f.CreateEvent(ctx, name, club, time.Now().UTC().AddDate(0, 0, 7))
}

// CreateFollow inserts a follow record directly, without touching the
// denormalized counter. Use the follow store's Toggle when the counter
// matters to the test.
func (f *Fixtures) CreateFollow(ctx context.Context, user models.User, club models.Club) models.Follow {
	f.t.Helper()

	follow := models.Follow{
		ID:         primitive.NewObjectID(),
		UserEmail:  user.Email,
		UserName:   user.FullName,
		ClubID:     club.ID,
		ClubName:   club.Name,
		FollowedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("user_follows").InsertOne(ctx, follow)
	if err != nil {
		f.t.Fatalf("failed to create test follow: %v", err)
	}

	return follow
}

// CreateRegistration inserts a registration record for a user and event.
func (f *Fixtures) CreateRegistration(ctx context.Context, user models.User, event models.Event) models.Registration {
	f.t.Helper()

	reg := models.Registration{
		ID:             primitive.NewObjectID(),
		EventID:        event.ID,
		UserEmail:      user.Email,
		UserName:       user.FullName,
		UserDepartment: user.Department,
		UserYear:       user.Year,
		RegisteredAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("event_registrations").InsertOne(ctx, reg)
	if err != nil {
		f.t.Fatalf("failed to create test registration: %v", err)
	}

	return reg
}

// CreateAnnouncement inserts an announcement for the given club.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, club models.Club, title, content string) models.Announcement {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Announcement{
		ID:        primitive.NewObjectID(),
		ClubID:    club.ID,
		ClubName:  club.Name,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("announcements").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test announcement: %v", err)
	}

	return a
}

// CreateFeedback inserts a feedback record for a user and event.
func (f *Fixtures) CreateFeedback(ctx context.Context, user models.User, event models.Event, rating int, comment string) models.Feedback {
	f.t.Helper()

	now := time.Now().UTC()
	fb := models.Feedback{
		ID:        primitive.NewObjectID(),
		EventID:   event.ID,
		UserEmail: user.Email,
		UserName:  user.FullName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("event_feedback").InsertOne(ctx, fb)
	if err != nil {
		f.t.Fatalf("failed to create test feedback: %v", err)
	}

	return fb
}
