package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"

	_ "modernc.org/sqlite"
)

var errBoom = errors.New("boom")

// newMemoryPool returns a pool over an in-memory sqlite database. The
// in-memory repositories never query it; it only hands out connections and
// transactions.
func newMemoryPool(t *testing.T) *dbx.Pool {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return dbx.NewPool(db, 0, nil)
}

// newClosedPool returns a pool whose connections cannot be acquired.
func newClosedPool(t *testing.T) *dbx.Pool {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	_ = db.Close()
	return dbx.NewPool(db, 0, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		BcryptCost:            4,
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
