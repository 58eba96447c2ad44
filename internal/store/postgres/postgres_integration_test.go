package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/curiolabs/curio-server/internal/store"
	"github.com/curiolabs/curio-server/internal/store/storetest"
)

// makePGStore connects to CURIO_POSTGRES_DSN when set, otherwise starts a
// throwaway pgvector container if CURIO_TEST_WITH_DOCKER=1. Anything else is
// a skip so the suite stays runnable without Docker.
func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("CURIO_POSTGRES_DSN")
	if dsn == "" {
		if os.Getenv("CURIO_TEST_WITH_DOCKER") != "1" {
			t.Skip("CURIO_POSTGRES_DSN not set; skipping postgres store integration test")
		}
		dsn = startContainer(t)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := Bootstrap(ctx, dsn); err != nil {
		t.Fatalf("postgres bootstrap: %v", err)
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func startContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	// pgvector image so CREATE EXTENSION vector works.
	ctr, err := tcpostgres.Run(ctx, "pgvector/pgvector:pg16",
		tcpostgres.WithDatabase("curio_test"),
		tcpostgres.WithUsername("curio"),
		tcpostgres.WithPassword("curio"),
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithSQLDriver("pgx"),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })
	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container dsn: %v", err)
	}
	return dsn
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
