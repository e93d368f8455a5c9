package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lib/pq"
)

func TestRebind(t *testing.T) {
	pg := &DB{dialect: Postgres}
	got := pg.Rebind("SELECT * FROM shops WHERE id = ? AND city = ? LIMIT ?")
	want := "SELECT * FROM shops WHERE id = $1 AND city = $2 LIMIT $3"
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}

	lite := &DB{dialect: SQLite}
	if q := "SELECT ?"; lite.Rebind(q) != q {
		t.Errorf("sqlite query must not change")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO shops (id, owner_id, name, full_name, address, category, city, created_at, updated_at)
	           VALUES (?, ?, 'n', 'f', 'a', 'grocery', 'x', 1, 1)`
	if _, err := db.ExecContext(ctx, insert, "s1", "o1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.ExecContext(ctx, insert, "s2", "o1")
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	pgErr := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	if !IsUniqueViolation(pgErr) {
		t.Error("expected pq 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("boom")) {
		t.Error("unexpected unique violation")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"},
		{"file:nearby.db?cache=shared", "file:nearby.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"},
		{"x.db?_pragma=busy_timeout(100)&_txlock=deferred", "x.db?_pragma=busy_timeout(100)&_txlock=deferred&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"},
	}
	for _, tt := range tests {
		if got := SQLiteDSN(tt.dsn); got != tt.want {
			t.Errorf("SQLiteDSN(%q)\n got %q\nwant %q", tt.dsn, got, tt.want)
		}
	}
}

func openFileDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(SQLite, "file:"+filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFileDB_PragmasOnEveryConnection(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()

	// hold several connections at once so the pool has to open new ones
	conns := make([]*sql.Conn, 4)
	for i := range conns {
		c, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn: %v", err)
		}
		conns[i] = c
	}
	for i, c := range conns {
		var fk, timeout int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatal(err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatal(err)
		}
		if fk != 1 || timeout != 5000 {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d", i, fk, timeout)
		}
		_ = c.Close()
	}
}

func TestFileDB_ConcurrentReadModifyWrite(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE counter (id INTEGER PRIMARY KEY, n INTEGER NOT NULL)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO counter (id, n) VALUES (1, 0)`); err != nil {
		t.Fatal(err)
	}

	const workers = 40
	start := make(chan struct{})
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- db.InTx(ctx, func(tx *sql.Tx) error {
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT n FROM counter WHERE id = 1`+db.ForUpdate()).Scan(&n); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `UPDATE counter SET n = ? WHERE id = 1`, n+1)
				return err
			})
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("transaction failed: %v", err)
		}
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT n FROM counter WHERE id = 1`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != workers {
		t.Errorf("counter = %d, want %d", n, workers)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shops (id, owner_id, name, full_name, address, category, city, created_at, updated_at)
			VALUES ('s1', 'o1', 'n', 'f', 'a', 'grocery', 'x', 1, 1)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shops`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rolled back insert is visible: %d rows", n)
	}
}

func TestForUpdate(t *testing.T) {
	if (&DB{dialect: Postgres}).ForUpdate() != " FOR UPDATE" || (&DB{dialect: SQLite}).ForUpdate() != "" {
		t.Error("unexpected row-lock suffix")
	}
}
