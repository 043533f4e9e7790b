package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// NewTestDB opens a fresh in-memory database with the schema applied. Each
// call gets a private database: shared cache keyed by a random name keeps all
// pooled connections on the same in-memory instance without leaking state
// between tests.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}
