// Package sqldb opens the relational catalog (shops, items, inventory).
// SQLite is the default driver; Postgres is selected by config.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// Dialect names a supported SQL driver.
type Dialect string

const (
	// SQLite uses modernc.org/sqlite.
	SQLite Dialect = "sqlite"
	// Postgres uses github.com/lib/pq.
	Postgres Dialect = "postgres"
)

// DB is a *sql.DB that knows its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// sqlitePragmas are per-connection settings, so they travel in the DSN
// and the driver applies them to every pooled connection.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open connects to the catalog database and applies driver settings.
func Open(dialect Dialect, dsn string) (*DB, error) {
	switch dialect {
	case SQLite, Postgres:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", dialect)
	}

	name := dsn
	if dialect == SQLite {
		name = SQLiteDSN(dsn)
	}
	conn, err := sql.Open(string(dialect), name)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every :memory: connection is a separate database.
	if dialect == SQLite && (dsn == ":memory:" || strings.Contains(dsn, "mode=memory")) {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &DB{DB: conn, dialect: dialect}, nil
}

// SQLiteDSN appends the connection pragmas to dsn, and makes transactions
// take the write lock at BEGIN (_txlock=immediate) so read-modify-write
// transactions wait on busy_timeout instead of failing on lock upgrade.
// Parameters already present in dsn are kept.
func SQLiteDSN(dsn string) string {
	var params []string
	for _, p := range sqlitePragmas {
		key := p[:strings.IndexByte(p, '(')]
		if !strings.Contains(dsn, key) {
			params = append(params, "_pragma="+p)
		}
	}
	if !strings.Contains(dsn, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// InTx runs fn in a transaction, committing when fn returns nil.
func (d *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ForUpdate returns the row-lock suffix for a SELECT inside InTx. SQLite
// transactions already hold the database write lock.
func (d *DB) ForUpdate() string {
	if d.dialect == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// Dialect returns the driver dialect.
func (d *DB) Dialect() Dialect { return d.dialect }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.PingContext(ctx); err != nil {
		return fmt.Errorf("catalog ping: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) Rebind(query string) string {
	if d.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique/primary key conflict.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
