package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/thevashuydv/unihub/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoURI returns the connection string for the test MongoDB instance.
// Override with UNIHUB_TEST_MONGO_URI for CI setups.
func mongoURI() string {
	if uri := os.Getenv("UNIHUB_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

// SetupTestDB connects to a local MongoDB, creates a per-test database with
// the production index set, and registers cleanup that drops it. Tests are
// skipped (not failed) when no MongoDB is reachable, so the rest of the
// suite still runs on machines without one.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI()))
	if err != nil {
		t.Skipf("skipping: cannot connect to MongoDB at %s: %v", mongoURI(), err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("skipping: MongoDB at %s not responding: %v", mongoURI(), err)
	}

	dbName := fmt.Sprintf("unihub_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("failed to ensure indexes on test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
