package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Collection and item dates (acquired_date, items.created_at) are stored as
// TEXT calendar dates: CSV import passes them through as-is and the system
// writes ISO YYYY-MM-DD when it stamps a date itself.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS collections (
    id            INTEGER PRIMARY KEY,
    owner_id      INTEGER NOT NULL REFERENCES users(id),
    name          TEXT NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    acquired_date TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_collections_natural_key
    ON collections(owner_id, name, acquired_date);

CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY,
    collection_id INTEGER NOT NULL REFERENCES collections(id),
    name          TEXT NOT NULL,
    condition     TEXT NOT NULL DEFAULT '',
    cost          REAL NOT NULL DEFAULT 0,
    price         REAL NOT NULL DEFAULT 0,
    profit        REAL NOT NULL DEFAULT 0,
    source        TEXT NOT NULL DEFAULT '',
    status        INTEGER NOT NULL DEFAULT 0 CHECK (status IN (0, 1, 2)),
    quantity      INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
    image_url     TEXT NOT NULL DEFAULT '',
    image         BLOB,
    image_mime    TEXT,
    created_at    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_items_collection
    ON items(collection_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
