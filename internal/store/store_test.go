package store_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/persistorai/movierec/internal/db"
	"github.com/persistorai/movierec/internal/db/migrations"
	"github.com/persistorai/movierec/internal/dbpool"
	"github.com/persistorai/movierec/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var (
	sharedEnv *testEnv
	envOnce   sync.Once
	envErr    error
)

// testDatabaseURL returns TEST_DATABASE_URL, or starts a postgres container
// when MOVIEREC_TESTCONTAINERS=1. The container lives for the test binary.
func testDatabaseURL(ctx context.Context) (string, bool, error) {
	if dbURL := os.Getenv("TEST_DATABASE_URL"); dbURL != "" {
		return dbURL, true, nil
	}

	if os.Getenv("MOVIEREC_TESTCONTAINERS") != "1" {
		return "", false, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("movierec_test"),
		postgres.WithUsername("movierec_test"),
		postgres.WithPassword("movierec_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", true, err
	}

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", true, err
	}

	return dbURL, true, nil
}

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	envOnce.Do(func() {
		ctx := context.Background()

		dbURL, ok, err := testDatabaseURL(ctx)
		if !ok {
			return
		}

		if err != nil {
			envErr = err
			return
		}

		pool, err := dbpool.NewPool(ctx, dbURL, 4)
		if err != nil {
			envErr = err
			return
		}

		log := logrus.New()
		log.SetLevel(logrus.ErrorLevel)

		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			envErr = err
			return
		}

		sharedEnv = &testEnv{pool: pool, log: log}
	})

	if envErr != nil {
		t.Fatalf("setting up test DB: %v", envErr)
	}

	if sharedEnv == nil {
		t.Skip("TEST_DATABASE_URL not set and MOVIEREC_TESTCONTAINERS != 1")
	}

	return sharedEnv
}

// setupMovieStore returns a MovieStore over an emptied movies table.
func setupMovieStore(t *testing.T) *store.MovieStore {
	t.Helper()

	env := getTestEnv(t)
	ctx := context.Background()

	if _, err := env.pool.Exec(ctx, "TRUNCATE movies RESTART IDENTITY"); err != nil {
		t.Fatalf("truncating movies: %v", err)
	}

	t.Cleanup(func() {
		env.pool.Exec(context.Background(), "TRUNCATE movies RESTART IDENTITY") //nolint:errcheck // best-effort cleanup
	})

	return store.NewMovieStore(store.Base{Pool: env.pool, Log: env.log})
}
