package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/webstackhq/webstack/internal/app/bootstrap"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const defaultTestMongoURI = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB instance and returns a database
// unique to this test, plus a cleanup that drops it. Tests are skipped when
// no MongoDB is reachable, so the store suites stay runnable everywhere.
//
// Set WEBSTACK_TEST_MONGO_URI to point at a non-local instance.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()

	uri := os.Getenv("WEBSTACK_TEST_MONGO_URI")
	if uri == "" {
		uri = defaultTestMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping: test MongoDB at %s not responding: %v", uri, err)
	}

	dbName := fmt.Sprintf("webstack_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	// Same indexes as production, so uniqueness behavior matches.
	deps := bootstrap.DBDeps{MongoClient: client, MongoDatabase: db}
	if err := bootstrap.EnsureSchema(ctx, nil, bootstrap.AppConfig{}, deps, zap.NewNop()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Fatalf("failed to create test indexes: %v", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	}
	return db, cleanup
}

// TestContext returns a context with a deadline suitable for one test case.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
