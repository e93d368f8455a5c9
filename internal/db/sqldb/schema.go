package sqldb

import "fmt"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS shops (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    full_name   TEXT NOT NULL,
    address     TEXT NOT NULL,
    contact     TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    note        TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL,
    city        TEXT NOT NULL,
    lat         REAL,
    lon         REAL,
    is_open     BOOLEAN NOT NULL DEFAULT 1,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shops_category ON shops(category);
CREATE INDEX IF NOT EXISTS idx_shops_city ON shops(city);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    shop_id     TEXT NOT NULL REFERENCES shops(id),
    name        TEXT NOT NULL,
    price       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    note        TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL,
    UNIQUE (shop_id, name)
);

CREATE INDEX IF NOT EXISTS idx_items_shop ON items(shop_id);

CREATE TABLE IF NOT EXISTS inventory (
    id           TEXT PRIMARY KEY,
    shop_id      TEXT NOT NULL REFERENCES shops(id),
    item_id      TEXT NOT NULL REFERENCES items(id),
    quantity     INTEGER NOT NULL CHECK (quantity >= 0),
    min_quantity INTEGER,
    max_quantity INTEGER,
    status       TEXT NOT NULL,
    updated_at   INTEGER NOT NULL,
    UNIQUE (shop_id, item_id)
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS shops (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    full_name   TEXT NOT NULL,
    address     TEXT NOT NULL,
    contact     TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    note        TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL,
    city        TEXT NOT NULL,
    lat         DOUBLE PRECISION,
    lon         DOUBLE PRECISION,
    is_open     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  BIGINT NOT NULL,
    updated_at  BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shops_category ON shops(category);
CREATE INDEX IF NOT EXISTS idx_shops_city ON shops(city);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    shop_id     TEXT NOT NULL REFERENCES shops(id),
    name        TEXT NOT NULL,
    price       NUMERIC(12, 2) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    note        TEXT NOT NULL DEFAULT '',
    created_at  BIGINT NOT NULL,
    updated_at  BIGINT NOT NULL,
    UNIQUE (shop_id, name)
);

CREATE INDEX IF NOT EXISTS idx_items_shop ON items(shop_id);

CREATE TABLE IF NOT EXISTS inventory (
    id           TEXT PRIMARY KEY,
    shop_id      TEXT NOT NULL REFERENCES shops(id),
    item_id      TEXT NOT NULL REFERENCES items(id),
    quantity     INTEGER NOT NULL CHECK (quantity >= 0),
    min_quantity INTEGER,
    max_quantity INTEGER,
    status       TEXT NOT NULL,
    updated_at   BIGINT NOT NULL,
    UNIQUE (shop_id, item_id)
);
`

// EnsureSchema creates missing tables and indexes. It is idempotent.
func EnsureSchema(db *DB) error {
	schema := sqliteSchema
	if db.dialect == Postgres {
		schema = postgresSchema
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
