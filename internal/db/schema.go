package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema: exactly four tables. Timestamps are
// written from Go so that snapshot import can restore them verbatim.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id               INTEGER PRIMARY KEY,
    tag_id           TEXT,
    name             TEXT NOT NULL,
    category         TEXT NOT NULL CHECK (category IN ('good_stuff', 'refillable', 'disposable')),
    purchase_date    DATETIME,
    lifespan_days    INTEGER,
    quantity         INTEGER,
    refill_threshold INTEGER,
    unit             TEXT,
    photo            BLOB,
    photo_mime       TEXT,
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_tag
    ON items(tag_id) WHERE tag_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS zones (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS placements (
    id           INTEGER PRIMARY KEY,
    item_id      INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    zone         TEXT NOT NULL,
    distribution TEXT NOT NULL CHECK (distribution IN ('placed', 'stack', 'spread', 'lose', 'discard')),
    routine      TEXT,
    motive       TEXT,
    seen_with    TEXT,
    placed_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_placements_item
    ON placements(item_id, placed_at);

CREATE TABLE IF NOT EXISTS co_presence (
    id        INTEGER PRIMARY KEY,
    item_a    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    item_b    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    frequency INTEGER NOT NULL DEFAULT 1,
    last_seen DATETIME NOT NULL,
    UNIQUE (item_a, item_b),
    CHECK (item_a < item_b)
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations []string

// Migrate creates the schema if missing and applies pending migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
