package clubs

import (
	"encoding/json"
	"testing"

	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	followstore "github.com/thevashuydv/unihub/internal/app/store/follows"
	"github.com/thevashuydv/unihub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := &Handler{
		DB:      db,
		Log:     zap.NewNop(),
		Clubs:   clubstore.New(db),
		Follows: followstore.New(db.Client(), db),
	}
	return h, testutil.NewFixtures(t, db)
}

func TestServeListFiltersByCategory(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateClub(ctx, "Robotics Club")
	f.CreateClub(ctx, "Chess Club")

	req := testutil.NewRequest("GET", "/clubs?category=technical")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, 200)

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total: got %d, want 2", resp.Total)
	}

	req = testutil.NewRequest("GET", "/clubs?category=cultural")
	rec = testutil.NewRecorder()
	h.ServeList(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("total for empty category: got %d, want 0", resp.Total)
	}
}

func TestServeListSearchMatchesName(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateClub(ctx, "Robotics Club")
	f.CreateClub(ctx, "Chess Club")

	req := testutil.NewRequest("GET", "/clubs?search=ROBO")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Robotics Club")

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total: got %d, want 1", resp.Total)
	}
}

func TestServeDetailReportsFollowState(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")
	f.CreateFollow(ctx, user, club)

	req := testutil.NewRequest("GET", "/clubs/"+club.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	req = testutil.WithUser(req, testutil.TestUser{
		ID: user.ID.Hex(), Name: user.FullName, Email: user.Email, Role: user.Role,
	})
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, req)

	rec.AssertStatus(t, 200)

	var resp detailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsFollowing {
		t.Fatal("expected is_following true for a follower")
	}
	if resp.Club.Name != "Robotics Club" {
		t.Fatalf("club name: got %q", resp.Club.Name)
	}
}

func TestServeDetailUnknownClub(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/clubs/no-such-id")
	req = testutil.WithChiURLParam(req, "id", "no-such-id")
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, req)

	rec.AssertStatus(t, 404)
}

func TestHandleToggleFollowRoundTrip(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	user := testutil.StudentUser()

	toggle := func() followResponse {
		req := testutil.NewAuthenticatedRequest("POST", "/clubs/"+club.ID.Hex()+"/follow", user)
		req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleToggleFollow(rec, req)
		rec.AssertStatus(t, 200)

		var resp followResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp
	}

	first := toggle()
	if !first.Following {
		t.Fatal("first toggle should follow")
	}
	if first.FollowersCount != 1 {
		t.Fatalf("followers after follow: got %d, want 1", first.FollowersCount)
	}

	second := toggle()
	if second.Following {
		t.Fatal("second toggle should unfollow")
	}
	if second.FollowersCount != 0 {
		t.Fatalf("followers after unfollow: got %d, want 0", second.FollowersCount)
	}
}

func TestServeFollowedOrdersByRecency(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := f.CreateClub(ctx, "Chess Club")
	second := f.CreateClub(ctx, "Robotics Club")
	user := testutil.StudentUser()

	for _, club := range []string{first.ID.Hex(), second.ID.Hex()} {
		req := testutil.NewAuthenticatedRequest("POST", "/clubs/"+club+"/follow", user)
		req = testutil.WithChiURLParam(req, "id", club)
		rec := testutil.NewRecorder()
		h.HandleToggleFollow(rec, req)
		rec.AssertStatus(t, 200)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/clubs/followed", user)
	rec := testutil.NewRecorder()
	h.ServeFollowed(rec, req)

	rec.AssertStatus(t, 200)

	var resp followedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Clubs) != 2 {
		t.Fatalf("followed clubs: got %d, want 2", len(resp.Clubs))
	}
	if resp.Clubs[0].ID != second.ID {
		t.Fatalf("expected most recently followed club first, got %q", resp.Clubs[0].Name)
	}
}

func TestHandleUpdateRequiresOwnership(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	other := f.CreateClub(ctx, "Chess Club")
	admin := testutil.ClubAdminUser(other.ID)

	req := testutil.NewJSONRequest("PUT", "/clubs/"+club.ID.Hex(), `{"description":"hijacked"}`)
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)

	rec.AssertStatus(t, 403)
}

func TestHandleUpdateEditsOwnClub(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := f.CreateClub(ctx, "Robotics Club")
	admin := testutil.ClubAdminUser(club.ID)

	req := testutil.NewJSONRequest("PUT", "/clubs/"+club.ID.Hex(), `{"description":"We build robots.","club_head":"grace hopper"}`)
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)

	rec.AssertStatus(t, 200)

	updated, err := h.Clubs.GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("reload club: %v", err)
	}
	if updated.Description != "We build robots." {
		t.Fatalf("description: got %q", updated.Description)
	}
	if updated.Name != "Robotics Club" {
		t.Fatalf("name should be unchanged, got %q", updated.Name)
	}
}
