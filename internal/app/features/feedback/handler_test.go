package feedback

import (
	"encoding/json"
	"fmt"
	"testing"

	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	feedbackstore "github.com/thevashuydv/unihub/internal/app/store/feedback"
	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"github.com/thevashuydv/unihub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := &Handler{
		DB:            db,
		Log:           zap.NewNop(),
		Feedback:      feedbackstore.New(db),
		Events:        eventstore.New(db),
		Registrations: registrationstore.New(db),
	}
	return h, testutil.NewFixtures(t, db)
}

func asTestUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role,
	}
}

func submitBody(eventID string, rating int, comment string) string {
	return fmt.Sprintf(`{"event_id":%q,"rating":%d,"comment":%q}`, eventID, rating, comment)
}

func TestHandleSubmitGates(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	past := f.CreatePastEvent(ctx, "Robot Demo Day", club)
	upcoming := f.CreateUpcomingEvent(ctx, "Future Meetup", club)
	attendee := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	outsider := f.CreateUser(ctx, "Bob Student", "bob@test.edu")
	f.CreateRegistration(ctx, attendee, past)
	f.CreateRegistration(ctx, attendee, upcoming)

	submit := func(user testutil.TestUser, eventID string, rating int) *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/feedback", submitBody(eventID, rating, "ok"))
		req = testutil.WithUser(req, user)
		rec := testutil.NewRecorder()
		h.HandleSubmit(rec, req)
		return rec
	}

	// Rating out of range.
	submit(asTestUser(attendee), past.ID.Hex(), 0).AssertStatus(t, 422)
	submit(asTestUser(attendee), past.ID.Hex(), 6).AssertStatus(t, 422)

	// Event not yet past.
	submit(asTestUser(attendee), upcoming.ID.Hex(), 4).AssertStatus(t, 403)

	// Not registered.
	submit(asTestUser(outsider), past.ID.Hex(), 4).AssertStatus(t, 403)

	// The owning club's admin cannot rate their own event.
	admin := testutil.ClubAdminUser(club.ID)
	submit(admin, past.ID.Hex(), 4).AssertStatus(t, 403)

	// Happy path, then singleton conflict.
	submit(asTestUser(attendee), past.ID.Hex(), 5).AssertStatus(t, 201)
	submit(asTestUser(attendee), past.ID.Hex(), 3).AssertStatus(t, 409)
}

func TestServeForEventSummary(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreatePastEvent(ctx, "Robot Demo Day", club)
	for i, rating := range []int{5, 4, 3} {
		user := f.CreateUser(ctx, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@test.edu", i))
		f.CreateFeedback(ctx, user, event, rating, "fine")
	}

	req := testutil.NewRequest("GET", "/feedback?event_id="+event.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeForEvent(rec, req)

	rec.AssertStatus(t, 200)

	var resp eventFeedbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary.Count != 3 {
		t.Fatalf("count: got %d, want 3", resp.Summary.Count)
	}
	if resp.Summary.Average != 4.0 {
		t.Fatalf("average: got %v, want 4.0", resp.Summary.Average)
	}
	for _, rating := range []int{5, 4, 3} {
		if resp.Summary.Histogram[rating] != 33 {
			t.Fatalf("histogram[%d]: got %d, want 33", rating, resp.Summary.Histogram[rating])
		}
	}
	if len(resp.Feedback) != 3 {
		t.Fatalf("feedback entries: got %d, want 3", len(resp.Feedback))
	}
}

func TestHandleUpdateOwnerOnly(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreatePastEvent(ctx, "Robot Demo Day", club)
	author := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	other := f.CreateUser(ctx, "Bob Student", "bob@test.edu")
	fb := f.CreateFeedback(ctx, author, event, 4, "good")

	update := func(user testutil.TestUser) *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest("PUT", "/feedback/"+fb.ID.Hex(), `{"rating":2,"comment":"changed"}`)
		req = testutil.WithChiURLParam(req, "id", fb.ID.Hex())
		req = testutil.WithUser(req, user)
		rec := testutil.NewRecorder()
		h.HandleUpdate(rec, req)
		return rec
	}

	update(asTestUser(other)).AssertStatus(t, 404)
	update(asTestUser(author)).AssertStatus(t, 200)

	reloaded, err := h.Feedback.GetByEventAndUser(ctx, event.ID, author.Email)
	if err != nil {
		t.Fatalf("reload feedback: %v", err)
	}
	if reloaded.Rating != 2 {
		t.Fatalf("rating after update: got %d, want 2", reloaded.Rating)
	}
}

func TestHandleDeleteOwnerOnly(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreatePastEvent(ctx, "Robot Demo Day", club)
	author := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	other := f.CreateUser(ctx, "Bob Student", "bob@test.edu")
	fb := f.CreateFeedback(ctx, author, event, 4, "good")

	del := func(user testutil.TestUser) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("DELETE", "/feedback/"+fb.ID.Hex(), user)
		req = testutil.WithChiURLParam(req, "id", fb.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, req)
		return rec
	}

	del(asTestUser(other)).AssertStatus(t, 404)
	del(asTestUser(author)).AssertStatus(t, 200)

	list, err := h.Feedback.ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("list feedback: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("feedback left: %d", len(list))
	}
}
