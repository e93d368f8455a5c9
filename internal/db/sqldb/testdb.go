package sqldb

import "testing"

// NewTestDB creates a fresh in-memory SQLite catalog with the schema applied.
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	db, err := Open(SQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
