package eventstore_test

import (
	"testing"
	"time"

	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"github.com/thevashuydv/unihub/internal/testutil"
)

func TestStore_List_FiltersInQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	robotics := fixtures.CreateClub(ctx, "Robotics Club")
	drama := fixtures.CreateClub(ctx, "Drama Society")
	date := time.Now().UTC().AddDate(0, 0, 7)

	seed := []models.Event{
		{Name: "Line Follower Contest", Category: "Competition", ClubID: robotics.ID, ClubName: robotics.Name, EventDate: date},
		{Name: "Soldering Workshop", Category: "Workshop", ClubID: robotics.ID, ClubName: robotics.Name, EventDate: date},
		{Name: "Improv Night", Category: "Performance", ClubID: drama.ID, ClubName: drama.Name, EventDate: date},
	}
	for _, e := range seed {
		if _, err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create %q failed: %v", e.Name, err)
		}
	}

	byClub, err := store.List(ctx, eventstore.Filter{ClubID: robotics.ID})
	if err != nil {
		t.Fatalf("List by club failed: %v", err)
	}
	if len(byClub) != 2 {
		t.Fatalf("club filter: got %d events, want 2", len(byClub))
	}

	// Category matches case-insensitively and exactly.
	byCategory, err := store.List(ctx, eventstore.Filter{Category: "WORKSHOP"})
	if err != nil {
		t.Fatalf("List by category failed: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Soldering Workshop" {
		t.Errorf("category filter: got %+v, want only Soldering Workshop", byCategory)
	}

	// Search matches name substrings regardless of case.
	bySearch, err := store.List(ctx, eventstore.Filter{Search: "IMPROV"})
	if err != nil {
		t.Fatalf("List by search failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Name != "Improv Night" {
		t.Errorf("search filter: got %+v, want only Improv Night", bySearch)
	}

	// Filters combine: robotics club but only its competition.
	both, err := store.List(ctx, eventstore.Filter{ClubID: robotics.ID, Category: "Competition"})
	if err != nil {
		t.Fatalf("List with combined filters failed: %v", err)
	}
	if len(both) != 1 || both[0].Name != "Line Follower Contest" {
		t.Errorf("combined filters: got %+v, want only Line Follower Contest", both)
	}
}
