package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	discussionstore "github.com/thevashuydv/unihub/internal/app/store/discussions"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	feedbackstore "github.com/thevashuydv/unihub/internal/app/store/feedback"
	followstore "github.com/thevashuydv/unihub/internal/app/store/follows"
	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/mailer"
	"github.com/thevashuydv/unihub/internal/app/system/notify"
	"github.com/thevashuydv/unihub/internal/testutil"
	"go.uber.org/zap"
)

// captureSender records outgoing mail instead of delivering it.
type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (c *captureSender) Send(e mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, e)
	return nil
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures, *captureSender) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sender := &captureSender{}
	follows := followstore.New(db.Client(), db)
	h := &Handler{
		DB:            db,
		Log:           zap.NewNop(),
		Notify:        notify.New(sender, follows, nil, zap.NewNop()),
		Events:        eventstore.New(db),
		Clubs:         clubstore.New(db),
		Registrations: registrationstore.New(db),
		Feedback:      feedbackstore.New(db),
		Discussions:   discussionstore.New(db),
		Users:         userstore.New(db),
	}
	return h, testutil.NewFixtures(t, db), sender
}

func eventBody(name string, date time.Time) string {
	return fmt.Sprintf(`{"name":%q,"description":"A test event","event_date":%q,"location":"Main Hall","category":"Workshop"}`,
		name, date.Format(time.RFC3339))
}

func TestHandleCreatePublishesAndNotifies(t *testing.T) {
	h, f, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	follower := f.CreateUser(ctx, "Ada Follower", "ada@test.edu")
	f.CreateFollow(ctx, follower, club)

	admin := testutil.ClubAdminUser(club.ID)
	body := eventBody("Robot Demo Day", time.Now().UTC().AddDate(0, 0, 7))
	req := testutil.NewJSONRequest("POST", "/events", body)
	req = testutil.WithUser(req, admin)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, 201)
	rec.AssertContains(t, "Robot Demo Day")

	if sender.count() != 1 {
		t.Fatalf("notification emails: got %d, want 1", sender.count())
	}
	if got := sender.sent[0].Subject; got != "New Event: Robot Demo Day by Robotics Club" {
		t.Fatalf("subject: got %q", got)
	}

	events, err := h.Events.ListByClub(ctx, club.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stored events: got %d, want 1", len(events))
	}
	if events[0].ClubName != "Robotics Club" {
		t.Fatalf("club name snapshot: got %q", events[0].ClubName)
	}
}

func TestHandleCreateRejectsBadDate(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	admin := testutil.ClubAdminUser(club.ID)

	req := testutil.NewJSONRequest("POST", "/events",
		`{"name":"Bad Date","description":"","event_date":"next tuesday","location":"","category":""}`)
	req = testutil.WithUser(req, admin)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, 422)
}

func TestHandleUpdateForbiddenForOtherClub(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	other := f.CreateClub(ctx, "Chess Club")
	event := f.CreateUpcomingEvent(ctx, "Robot Demo Day", club)

	admin := testutil.ClubAdminUser(other.ID)
	body := eventBody("Hijacked", time.Now().UTC().AddDate(0, 0, 7))
	req := testutil.NewJSONRequest("PUT", "/events/"+event.ID.Hex(), body)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)

	rec.AssertStatus(t, 403)
}

func TestHandleRegisterAndDuplicate(t *testing.T) {
	h, f, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreateUpcomingEvent(ctx, "Robot Demo Day", club)
	account := f.CreateUser(ctx, "Ada Student", "ada@test.edu")

	user := testutil.TestUser{
		ID: account.ID.Hex(), Name: account.FullName, Email: account.Email, Role: account.Role,
	}

	register := func() *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("POST", "/events/"+event.ID.Hex()+"/register", user)
		req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleRegister(rec, req)
		return rec
	}

	first := register()
	first.AssertStatus(t, 201)

	if sender.count() != 1 {
		t.Fatalf("confirmation emails: got %d, want 1", sender.count())
	}
	if got := sender.sent[0].Subject; got != "Registration Confirmed: Robot Demo Day" {
		t.Fatalf("subject: got %q", got)
	}

	second := register()
	second.AssertStatus(t, 409)

	count, err := h.Registrations.CountByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("count registrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("registrations: got %d, want 1", count)
	}

	// The snapshot fields come from the account document.
	regs, err := h.Registrations.ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("list registrations: %v", err)
	}
	if regs[0].UserDepartment != "Computer Science" {
		t.Fatalf("department snapshot: got %q", regs[0].UserDepartment)
	}
}

func TestHandleDeleteCascades(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreatePastEvent(ctx, "Robot Demo Day", club)
	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	f.CreateRegistration(ctx, user, event)
	f.CreateFeedback(ctx, user, event, 5, "great")

	admin := testutil.ClubAdminUser(club.ID)
	req := testutil.NewAuthenticatedRequest("DELETE", "/events/"+event.ID.Hex(), admin)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"registrations_removed":1`)

	if _, err := h.Events.GetByID(ctx, event.ID); err != eventstore.ErrNotFound {
		t.Fatalf("event should be gone, got %v", err)
	}
	regCount, _ := h.Registrations.CountByEvent(ctx, event.ID)
	if regCount != 0 {
		t.Fatalf("registrations left after cascade: %d", regCount)
	}
	fbs, _ := h.Feedback.ListByEvent(ctx, event.ID)
	if len(fbs) != 0 {
		t.Fatalf("feedback left after cascade: %d", len(fbs))
	}
}

func TestServeDetailReportsRegistrationState(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreateUpcomingEvent(ctx, "Robot Demo Day", club)
	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	f.CreateRegistration(ctx, user, event)

	req := testutil.NewRequest("GET", "/events/"+event.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	req = testutil.WithUser(req, testutil.TestUser{
		ID: user.ID.Hex(), Name: user.FullName, Email: user.Email, Role: user.Role,
	})
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, req)

	rec.AssertStatus(t, 200)

	var resp eventDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsRegistered {
		t.Fatal("expected is_registered true")
	}
	if resp.RegistrationCount != 1 {
		t.Fatalf("registration_count: got %d, want 1", resp.RegistrationCount)
	}
	if resp.Status != "upcoming" {
		t.Fatalf("status: got %q, want upcoming", resp.Status)
	}
}

func TestServeListFiltersByStatus(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	f.CreatePastEvent(ctx, "Old Meetup", club)
	f.CreateUpcomingEvent(ctx, "Robot Demo Day", club)

	req := testutil.NewRequest("GET", "/events?status=upcoming")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, 200)

	var resp eventListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total: got %d, want 1", resp.Total)
	}
	if resp.Events[0].Name != "Robot Demo Day" {
		t.Fatalf("event: got %q", resp.Events[0].Name)
	}
}

func TestServeAttendeesCSV(t *testing.T) {
	h, f, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	event := f.CreateUpcomingEvent(ctx, "Robot Demo Day", club)
	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	f.CreateRegistration(ctx, user, event)

	admin := testutil.ClubAdminUser(club.ID)
	req := testutil.NewAuthenticatedRequest("GET", "/events/"+event.ID.Hex()+"/attendees.csv", admin)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeAttendeesCSV(rec, req)

	rec.AssertStatus(t, 200)
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition: got %q", cd)
	}

	body := rec.Body.Bytes()
	if len(body) < 3 || body[0] != 0xEF || body[1] != 0xBB || body[2] != 0xBF {
		t.Fatal("expected UTF-8 BOM prefix")
	}
	if !strings.Contains(string(body), "ada@test.edu") {
		t.Fatal("expected attendee row in CSV")
	}
}
