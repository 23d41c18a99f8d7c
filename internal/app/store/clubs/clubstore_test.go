package clubstore_test

import (
	"testing"

	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"github.com/thevashuydv/unihub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club, err := store.Create(ctx, models.Club{
		Name:        "Coding Club",
		Category:    "Technical",
		Description: "We write code",
		AdminEmail:  "admin@coding.test",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if club.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if club.NameCI != "coding club" {
		t.Errorf("NameCI: got %q, want folded name", club.NameCI)
	}
	if club.FollowersCount != 0 {
		t.Errorf("FollowersCount: got %d, want 0", club.FollowersCount)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Club{Name: "Coding Club"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Name uniqueness is case-insensitive via name_ci.
	if _, err := store.Create(ctx, models.Club{Name: "CODING CLUB"}); err != clubstore.ErrDuplicateClub {
		t.Errorf("expected ErrDuplicateClub, got %v", err)
	}
}

func TestStore_IncDecFollowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")

	if err := store.IncFollowers(ctx, club.ID); err != nil {
		t.Fatalf("IncFollowers failed: %v", err)
	}
	got, err := store.GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FollowersCount != 1 {
		t.Errorf("FollowersCount after inc: got %d, want 1", got.FollowersCount)
	}

	if err := store.DecFollowers(ctx, club.ID); err != nil {
		t.Fatalf("DecFollowers failed: %v", err)
	}
	// A second decrement on a zero counter matches nothing.
	if err := store.DecFollowers(ctx, club.ID); err != nil {
		t.Fatalf("clamped DecFollowers failed: %v", err)
	}
	got, _ = store.GetByID(ctx, club.ID)
	if got.FollowersCount != 0 {
		t.Errorf("FollowersCount after clamped dec: got %d, want 0", got.FollowersCount)
	}
}

func TestStore_List_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateClub(ctx, "Zebra Society")
	fixtures.CreateClub(ctx, "Art Club")

	clubs, err := store.List(ctx, clubstore.Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clubs) != 2 {
		t.Fatalf("expected 2 clubs, got %d", len(clubs))
	}
	if clubs[0].Name != "Art Club" {
		t.Errorf("expected name order, got %q first", clubs[0].Name)
	}
}

func TestStore_List_FiltersInQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []models.Club{
		{Name: "Robotics Club", Category: "Technical", Description: "We build robots"},
		{Name: "Drama Society", Category: "Cultural", Description: "Stage productions"},
		{Name: "Debate Union", Category: "Cultural", Description: "Weekly debates"},
	}
	for _, c := range seed {
		if _, err := store.Create(ctx, c); err != nil {
			t.Fatalf("Create %q failed: %v", c.Name, err)
		}
	}

	// Category matches case-insensitively and exactly.
	cultural, err := store.List(ctx, clubstore.Filter{Category: "CULTURAL"})
	if err != nil {
		t.Fatalf("List by category failed: %v", err)
	}
	if len(cultural) != 2 {
		t.Fatalf("category filter: got %d clubs, want 2", len(cultural))
	}

	// Search matches name substrings regardless of case.
	byName, err := store.List(ctx, clubstore.Filter{Search: "ROBO"})
	if err != nil {
		t.Fatalf("List by name search failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Robotics Club" {
		t.Errorf("name search: got %+v, want only Robotics Club", byName)
	}

	// Search also reaches into descriptions.
	byDesc, err := store.List(ctx, clubstore.Filter{Search: "stage"})
	if err != nil {
		t.Fatalf("List by description search failed: %v", err)
	}
	if len(byDesc) != 1 || byDesc[0].Name != "Drama Society" {
		t.Errorf("description search: got %+v, want only Drama Society", byDesc)
	}

	// Both filters combine.
	both, err := store.List(ctx, clubstore.Filter{Category: "Cultural", Search: "debate"})
	if err != nil {
		t.Fatalf("List with both filters failed: %v", err)
	}
	if len(both) != 1 || both[0].Name != "Debate Union" {
		t.Errorf("combined filters: got %+v, want only Debate Union", both)
	}
}

func TestStore_Update_DoesNotTouchFollowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	if err := store.IncFollowers(ctx, club.ID); err != nil {
		t.Fatalf("IncFollowers failed: %v", err)
	}

	err := store.Update(ctx, club.ID, models.Club{Description: "Updated description"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := store.GetByID(ctx, club.ID)
	if got.FollowersCount != 1 {
		t.Errorf("FollowersCount changed by Update: got %d, want 1", got.FollowersCount)
	}
	if got.Description != "Updated description" {
		t.Errorf("Description not updated: %q", got.Description)
	}
}
