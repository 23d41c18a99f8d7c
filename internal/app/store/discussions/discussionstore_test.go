package discussionstore_test

import (
	"sync"
	"testing"

	discussionstore "github.com/thevashuydv/unihub/internal/app/store/discussions"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"github.com/thevashuydv/unihub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_PostQuestion_And_Threads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	event := fixtures.CreateUpcomingEvent(ctx, "Hack Night", club)

	q, err := store.PostQuestion(ctx, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: "student@test.edu",
		UserName:  "Test Student",
		Question:  "Do we need laptops?",
	})
	if err != nil {
		t.Fatalf("PostQuestion failed: %v", err)
	}

	threads, err := store.Threads(ctx, event.ID)
	if err != nil {
		t.Fatalf("Threads failed: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if threads[0].Question.ID != q.ID {
		t.Error("thread question mismatch")
	}
	if threads[0].Reply != nil {
		t.Error("expected unanswered question")
	}
}

func TestStore_PostReply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	event := fixtures.CreateUpcomingEvent(ctx, "Hack Night", club)

	q, err := store.PostQuestion(ctx, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: "student@test.edu",
		UserName:  "Test Student",
		Question:  "Do we need laptops?",
	})
	if err != nil {
		t.Fatalf("PostQuestion failed: %v", err)
	}

	_, err = store.PostReply(ctx, q.ID, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: "admin@test.edu",
		UserName:  "Club Admin",
		Question:  "Yes, bring one.",
	})
	if err != nil {
		t.Fatalf("PostReply failed: %v", err)
	}

	threads, err := store.Threads(ctx, event.ID)
	if err != nil {
		t.Fatalf("Threads failed: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if threads[0].Reply == nil {
		t.Fatal("expected the thread to carry its reply")
	}
	if !threads[0].Reply.IsAdminReply {
		t.Error("reply should be marked as admin reply")
	}
}

func TestStore_PostReply_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	event := fixtures.CreateUpcomingEvent(ctx, "Hack Night", club)

	q, err := store.PostQuestion(ctx, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: "student@test.edu",
		Question:  "Do we need laptops?",
	})
	if err != nil {
		t.Fatalf("PostQuestion failed: %v", err)
	}

	reply := models.DiscussionEntry{EventID: event.ID, UserEmail: "admin@test.edu", Question: "Yes."}
	if _, err := store.PostReply(ctx, q.ID, reply); err != nil {
		t.Fatalf("first PostReply failed: %v", err)
	}
	if _, err := store.PostReply(ctx, q.ID, reply); err != discussionstore.ErrAlreadyReplied {
		t.Errorf("expected ErrAlreadyReplied, got %v", err)
	}
}

func TestStore_PostReply_ConcurrentOnlyOneWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	event := fixtures.CreateUpcomingEvent(ctx, "Hack Night", club)

	q, err := store.PostQuestion(ctx, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: "student@test.edu",
		Question:  "Do we need laptops?",
	})
	if err != nil {
		t.Fatalf("PostQuestion failed: %v", err)
	}

	const n = 6
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.PostReply(ctx, q.ID, models.DiscussionEntry{
				EventID:   event.ID,
				UserEmail: "admin@test.edu",
				Question:  "Yes.",
			})
		}()
	}
	wg.Wait()

	threads, err := store.Threads(ctx, event.ID)
	if err != nil {
		t.Fatalf("Threads failed: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if threads[0].Reply == nil {
		t.Fatal("expected exactly one winning reply")
	}
}

func TestStore_PostReply_QuestionNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.PostReply(ctx, primitive.NewObjectID(), models.DiscussionEntry{
		EventID:   primitive.NewObjectID(),
		UserEmail: "admin@test.edu",
		Question:  "Yes.",
	})
	if err != discussionstore.ErrQuestionNotFound {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestStore_DeleteByEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	event := fixtures.CreateUpcomingEvent(ctx, "Hack Night", club)

	q, _ := store.PostQuestion(ctx, models.DiscussionEntry{EventID: event.ID, UserEmail: "a@test.edu", Question: "Q1"})
	_, _ = store.PostReply(ctx, q.ID, models.DiscussionEntry{EventID: event.ID, UserEmail: "admin@test.edu", Question: "A1"})
	_, _ = store.PostQuestion(ctx, models.DiscussionEntry{EventID: event.ID, UserEmail: "b@test.edu", Question: "Q2"})

	removed, err := store.DeleteByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("DeleteByEvent failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
}
