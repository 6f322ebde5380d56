package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/dbpool"
	"github.com/municipallabs/corecrm/internal/models"
	"github.com/municipallabs/corecrm/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase creates a Base with a fresh test tenant, cleaned up after
// the test. Tenant deletion cascades through principals, threads, messages,
// and audit entries.
func setupTestBase(t *testing.T) (store.Base, string) {
	t.Helper()

	env := getTestEnv(t)
	tenantID := uuid.New().String()
	ctx := context.Background()

	_, err := env.pool.Exec(ctx,
		"INSERT INTO tenants (id, name) VALUES ($1, $2)",
		tenantID, "test-tenant-"+tenantID[:8],
	)
	if err != nil {
		t.Fatalf("creating test tenant: %v", err)
	}

	t.Cleanup(func() {
		env.pool.Exec(context.Background(), "DELETE FROM tenants WHERE id = $1", tenantID) //nolint:errcheck // best-effort cleanup
	})

	return store.Base{Pool: env.pool, Log: env.log}, tenantID
}

// seedThread inserts a thread shell with one inbound message.
func seedThread(t *testing.T, base store.Base, tenantID, threadID, messageID string) {
	t.Helper()

	messages := store.NewMessageStore(base)
	now := time.Now().UTC()

	err := base.WithTenant(context.Background(), tenantID, func(sc *store.Scope) error {
		if err := messages.UpsertThread(context.Background(), sc, &models.Thread{
			ID:            threadID,
			LastMessageAt: now,
		}); err != nil {
			return err
		}

		return messages.UpsertMessage(context.Background(), sc, &models.Message{
			ID:          messageID,
			ThreadID:    threadID,
			SenderEmail: "constituent@example.org",
			Subject:     "Pothole on 5th",
			Snippet:     "The pothole near the library keeps growing.",
			Body:        "Full text of the complaint.",
			ReceivedAt:  now,
		})
	})
	if err != nil {
		t.Fatalf("seeding thread %s: %v", threadID, err)
	}
}
