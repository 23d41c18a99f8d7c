package profile

import (
	"encoding/json"
	"strings"
	"testing"

	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"github.com/thevashuydv/unihub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := &Handler{DB: db, Log: zap.NewNop(), Users: userstore.New(db)}
	return h, testutil.NewFixtures(t, db)
}

func asTestUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role,
	}
}

func TestServeOwn(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")

	req := testutil.NewAuthenticatedRequest("GET", "/profile", asTestUser(user))
	rec := testutil.NewRecorder()
	h.ServeOwn(rec, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "ada@test.edu")
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Fatal("password hash must never be serialized")
	}
}

func TestHandleUpdateKeepsEmptyFields(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateUser(ctx, "Ada Student", "ada@test.edu")

	req := testutil.NewJSONRequest("PUT", "/profile", `{"department":"Mathematics"}`)
	req = testutil.WithUser(req, asTestUser(user))
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)

	rec.AssertStatus(t, 200)

	reloaded, err := h.Users.GetByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Department != "Mathematics" {
		t.Fatalf("department: got %q", reloaded.Department)
	}
	if reloaded.FullName != "Ada Student" {
		t.Fatalf("name should be unchanged, got %q", reloaded.FullName)
	}
}

func TestServePublicHidesPrivateFields(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	target := f.CreateUser(ctx, "Bob Student", "bob@test.edu")
	viewer := f.CreateUser(ctx, "Ada Student", "ada@test.edu")

	req := testutil.NewAuthenticatedRequest("GET", "/profile/bob@test.edu", asTestUser(viewer))
	req = testutil.WithChiURLParam(req, "email", target.Email)
	rec := testutil.NewRecorder()
	h.ServePublic(rec, req)

	rec.AssertStatus(t, 200)

	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	pub := resp["user"]
	if pub["full_name"] != "Bob Student" {
		t.Fatalf("full_name: got %v", pub["full_name"])
	}
	if _, leaked := pub["role"]; leaked {
		t.Fatal("role must not be exposed on public profiles")
	}
}

func TestServePublicUnknownUser(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	viewer := f.CreateUser(ctx, "Ada Student", "ada@test.edu")

	req := testutil.NewAuthenticatedRequest("GET", "/profile/ghost@test.edu", asTestUser(viewer))
	req = testutil.WithChiURLParam(req, "email", "ghost@test.edu")
	rec := testutil.NewRecorder()
	h.ServePublic(rec, req)

	rec.AssertStatus(t, 404)
}
